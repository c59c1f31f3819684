package result

type ErrorCode int

const (
	CodeOK ErrorCode = 0

	CodeGenericError ErrorCode = 10000

	// Swap proposal / transition rule violations. These correspond to the
	// hosting ledger's contract rejecting a submission outright.
	CodeInvalidProposal    ErrorCode = 20001
	CodeInvalidTransition  ErrorCode = 20002
	CodeContractRejection  ErrorCode = 20003
	CodeSwapAlreadyFinal   ErrorCode = 20004
	CodeUnknownParticipant ErrorCode = 20005
)
