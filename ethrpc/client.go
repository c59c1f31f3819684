// Package ethrpc provides read access to the EVM chain over JSON-RPC. The
// swap core never trusts this data on its own: everything fetched here is
// re-verified cryptographically before it can unlock an asset.
package ethrpc

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"github.com/ybbus/jsonrpc/v3"

	"github.com/crossledger/crossledger/common"
	"github.com/crossledger/crossledger/core"
)

// ChainReader is the EVM access contract consumed by the swap protocol.
type ChainReader interface {
	GetBlock(ctx context.Context, number uint64) (*core.BlockHeader, error)
	GetBlockReceipts(ctx context.Context, number uint64) ([]*core.TransactionReceipt, error)
	SubmitAndWaitForReceipt(ctx context.Context, rawTx common.Bytes) (*core.TransactionReceipt, error)
}

// Client is a ChainReader over an Ethereum JSON-RPC endpoint.
type Client struct {
	rpc          jsonrpc.RPCClient
	callTimeout  time.Duration
	pollInterval time.Duration
}

var _ ChainReader = (*Client)(nil)

// NewClient creates a client for the given JSON-RPC endpoint. An empty
// endpoint falls back to the configured default.
func NewClient(endpoint string) *Client {
	if endpoint == "" {
		endpoint = viper.GetString(common.CfgChainRPCEndpoint)
	}
	return &Client{
		rpc:          jsonrpc.NewClient(endpoint),
		callTimeout:  time.Duration(viper.GetInt(common.CfgChainRPCTimeout)) * time.Second,
		pollInterval: time.Duration(viper.GetInt(common.CfgChainReceiptPollInterval)) * time.Second,
	}
}

// GetBlock fetches the block header subset for the given block number.
func (c *Client) GetBlock(ctx context.Context, number uint64) (*core.BlockHeader, error) {
	var raw rpcBlock
	if err := c.call(ctx, &raw, "eth_getBlockByNumber", encodeQuantity(number), false); err != nil {
		return nil, errors.Wrapf(err, "failed to fetch block %v", number)
	}
	parsedNumber, err := parseQuantity(raw.Number)
	if err != nil {
		return nil, errors.Wrapf(err, "malformed block number in block %v", number)
	}
	return core.NewBlockHeader(parsedNumber, common.HexToHash(raw.ReceiptsRoot)), nil
}

// GetBlockReceipts fetches all receipts of the given block, ordered by
// transaction index.
func (c *Client) GetBlockReceipts(ctx context.Context, number uint64) ([]*core.TransactionReceipt, error) {
	var raws []rpcReceipt
	if err := c.call(ctx, &raws, "eth_getBlockReceipts", encodeQuantity(number)); err != nil {
		return nil, errors.Wrapf(err, "failed to fetch receipts of block %v", number)
	}
	receipts := make([]*core.TransactionReceipt, len(raws))
	for i, raw := range raws {
		receipt, err := raw.toReceipt()
		if err != nil {
			return nil, errors.Wrapf(err, "malformed receipt %v in block %v", i, number)
		}
		receipts[i] = receipt
	}
	return receipts, nil
}

// SubmitAndWaitForReceipt submits a signed raw transaction and polls for its
// receipt until the context expires.
func (c *Client) SubmitAndWaitForReceipt(ctx context.Context, rawTx common.Bytes) (*core.TransactionReceipt, error) {
	var txHash string
	if err := c.call(ctx, &txHash, "eth_sendRawTransaction", rawTx.String()); err != nil {
		return nil, errors.Wrap(err, "failed to submit transaction")
	}

	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil, errors.Wrapf(ctx.Err(), "gave up waiting for receipt of %v", txHash)
		case <-ticker.C:
			var raw *rpcReceipt
			if err := c.call(ctx, &raw, "eth_getTransactionReceipt", txHash); err != nil {
				return nil, errors.Wrapf(err, "failed to fetch receipt of %v", txHash)
			}
			if raw == nil {
				continue // not mined yet
			}
			return raw.toReceipt()
		}
	}
}

// call performs one JSON-RPC call with the per-call timeout applied on top of
// the caller's context.
func (c *Client) call(ctx context.Context, out interface{}, method string, params ...interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()
	resp, err := c.rpc.Call(ctx, method, params...)
	if err != nil {
		return err
	}
	if resp.Error != nil {
		return fmt.Errorf("%v error %v: %v", method, resp.Error.Code, resp.Error.Message)
	}
	return resp.GetObject(out)
}

//
// --------------------- Wire types -------------------------
//

type rpcBlock struct {
	Number       string `json:"number"`
	ReceiptsRoot string `json:"receiptsRoot"`
}

type rpcLog struct {
	Address string   `json:"address"`
	Topics  []string `json:"topics"`
	Data    string   `json:"data"`
}

type rpcReceipt struct {
	Status            string   `json:"status"`
	CumulativeGasUsed string   `json:"cumulativeGasUsed"`
	LogsBloom         string   `json:"logsBloom"`
	TransactionIndex  string   `json:"transactionIndex"`
	GasUsed           string   `json:"gasUsed"`
	Logs              []rpcLog `json:"logs"`
}

func (r rpcReceipt) toReceipt() (*core.TransactionReceipt, error) {
	status, err := parseQuantity(r.Status)
	if err != nil {
		return nil, err
	}
	cumulativeGasUsed, err := parseQuantity(r.CumulativeGasUsed)
	if err != nil {
		return nil, err
	}
	txIndex, err := parseQuantity(r.TransactionIndex)
	if err != nil {
		return nil, err
	}
	gasUsed, err := parseQuantity(r.GasUsed)
	if err != nil {
		return nil, err
	}
	logs := make([]*core.Log, len(r.Logs))
	for i, raw := range r.Logs {
		topics := make([]common.Hash, len(raw.Topics))
		for j, topic := range raw.Topics {
			topics[j] = common.HexToHash(topic)
		}
		logs[i] = &core.Log{
			Address: common.HexToAddress(raw.Address),
			Topics:  topics,
			Data:    common.FromHex(raw.Data),
		}
	}
	receipt := &core.TransactionReceipt{
		Status:            status,
		CumulativeGasUsed: cumulativeGasUsed,
		Logs:              logs,
		TxIndex:           txIndex,
		GasUsed:           gasUsed,
	}
	bloomBytes := common.FromHex(r.LogsBloom)
	if len(bloomBytes) == core.BloomByteLength {
		copy(receipt.Bloom[:], bloomBytes)
	} else {
		receipt.Bloom = core.CreateBloom(logs)
	}
	return receipt, nil
}

// parseQuantity parses a hex quantity ("0x1b4") into a uint64.
func parseQuantity(s string) (uint64, error) {
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		return 0, fmt.Errorf("quantity %q lacks 0x prefix", s)
	}
	return strconv.ParseUint(s[2:], 16, 64)
}

// encodeQuantity encodes a uint64 as a hex quantity.
func encodeQuantity(v uint64) string {
	return "0x" + strconv.FormatUint(v, 16)
}
