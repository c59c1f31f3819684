package result

import "fmt"

// Result represents the outcome of a ledger rule check.
type Result struct {
	Code    ErrorCode
	Message string
}

// IsOK indicates if the check succeeded.
func (res Result) IsOK() bool {
	return res.Code == CodeOK
}

// IsError indicates if the check resulted in an error.
func (res Result) IsError() bool {
	return res.Code != CodeOK
}

// String returns the string representation of the result.
func (res Result) String() string {
	return fmt.Sprintf("Result{code:%v, message:%v}", res.Code, res.Message)
}

// WithErrorCode attaches the error code to the result.
func (res Result) WithErrorCode(code ErrorCode) Result {
	res.Code = code
	return res
}

// -------------- Constructors -------------- //

// OK represents the success result.
var OK = Result{Code: CodeOK}

// Error returns an error result with a generic error code.
func Error(msgFormat string, a ...interface{}) Result {
	return Result{
		Code:    CodeGenericError,
		Message: fmt.Sprintf(msgFormat, a...),
	}
}

// ErrorWithCode returns an error result carrying the given code.
func ErrorWithCode(code ErrorCode, msgFormat string, a ...interface{}) Result {
	return Result{
		Code:    code,
		Message: fmt.Sprintf(msgFormat, a...),
	}
}
