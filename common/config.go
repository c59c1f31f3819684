package common

import (
	"github.com/spf13/viper"
)

const (
	// CfgLogLevel sets the log level.
	CfgLogLevel = "log.level"

	// CfgAttestationTimeout sets the upper bound (in seconds) on a validator
	// attestation collection round.
	CfgAttestationTimeout = "attestation.timeout"
	// CfgAttestationMinBlockNumber sets the lowest block number a local signer
	// is willing to attest to.
	CfgAttestationMinBlockNumber = "attestation.minBlockNumber"

	// CfgStorageDataPath sets the directory used by the swap repository.
	CfgStorageDataPath = "storage.dataPath"

	// CfgChainRPCEndpoint sets the JSON-RPC endpoint of the EVM chain.
	CfgChainRPCEndpoint = "chain.rpcEndpoint"
	// CfgChainRPCTimeout sets the per-call timeout (in seconds) for EVM chain queries.
	CfgChainRPCTimeout = "chain.rpcTimeout"
	// CfgChainReceiptPollInterval sets the polling interval (in seconds) when
	// waiting for a submitted transaction's receipt.
	CfgChainReceiptPollInterval = "chain.receiptPollInterval"
)

func init() {
	viper.SetDefault(CfgLogLevel, "info")

	viper.SetDefault(CfgAttestationTimeout, 15)
	viper.SetDefault(CfgAttestationMinBlockNumber, 0)

	viper.SetDefault(CfgStorageDataPath, "")

	viper.SetDefault(CfgChainRPCEndpoint, "http://127.0.0.1:8545")
	viper.SetDefault(CfgChainRPCTimeout, 10)
	viper.SetDefault(CfgChainReceiptPollInterval, 2)
}
