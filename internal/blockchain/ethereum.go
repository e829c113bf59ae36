package blockchain

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/Zaki4gg/asiq-tix/pkg/logger"
)

// promoterABI is the read-only slice of the tickets contract the service
// depends on.
const promoterABI = `[{"constant":true,"inputs":[{"name":"account","type":"address"}],"name":"isPromoter","outputs":[{"name":"","type":"bool"}],"stateMutability":"view","type":"function"}]`

// DefaultCallTimeout bounds every RPC call so role resolution can never
// hang a request on a stalled endpoint.
const DefaultCallTimeout = 10 * time.Second

type Ethereum struct {
	logger          *logger.Logger
	apiURL          string
	contractAddress string
	callTimeout     time.Duration

	client          *ethclient.Client
	ticketsContract *bind.BoundContract
}

// NewEthereum creates a new Ethereum chain client. Call Run before use.
func NewEthereum(apiURL, contractAddress string, callTimeout time.Duration, logger *logger.Logger) *Ethereum {
	if callTimeout <= 0 {
		callTimeout = DefaultCallTimeout
	}
	return &Ethereum{
		apiURL:          apiURL,
		contractAddress: contractAddress,
		callTimeout:     callTimeout,
		logger:          logger,
	}
}

func (e *Ethereum) Run() error {
	if err := e.ConnectToRPC(); err != nil {
		return fmt.Errorf("failed to connect to the RPC server: %w", err)
	}
	if err := e.BuildBindings(); err != nil {
		return fmt.Errorf("failed to build bindings: %w", err)
	}
	return nil
}

func (e *Ethereum) ConnectToRPC() error {
	client, err := ethclient.Dial(e.apiURL)
	if err != nil {
		return fmt.Errorf("failed to connect to the RPC server: %w", err)
	}
	e.client = client
	return nil
}

func (e *Ethereum) BuildBindings() error {
	if !common.IsHexAddress(e.contractAddress) {
		return fmt.Errorf("invalid tickets contract address: %s", e.contractAddress)
	}

	parsedABI, err := abi.JSON(strings.NewReader(promoterABI))
	if err != nil {
		return fmt.Errorf("failed to parse tickets ABI: %w", err)
	}

	address := common.HexToAddress(e.contractAddress)
	e.ticketsContract = bind.NewBoundContract(address, parsedABI, e.client, e.client, e.client)
	return nil
}

// IsPromoter calls the on-chain isPromoter predicate for the given wallet.
// The call is bounded by the configured timeout; the role resolver treats
// any returned error as "not a promoter".
func (e *Ethereum) IsPromoter(address string) (bool, error) {
	if e.ticketsContract == nil {
		return false, fmt.Errorf("tickets contract is not initialised")
	}
	if !common.IsHexAddress(address) {
		return false, fmt.Errorf("invalid wallet address: %s", address)
	}

	ctx, cancel := context.WithTimeout(context.Background(), e.callTimeout)
	defer cancel()

	var results []interface{}
	err := e.ticketsContract.Call(&bind.CallOpts{Context: ctx}, &results, "isPromoter", common.HexToAddress(address))
	if err != nil {
		return false, fmt.Errorf("failed to call isPromoter: %w", err)
	}
	if len(results) == 0 {
		return false, fmt.Errorf("empty isPromoter result")
	}
	promoter, ok := results[0].(bool)
	if !ok {
		return false, fmt.Errorf("unexpected isPromoter result type %T", results[0])
	}
	return promoter, nil
}

func (e *Ethereum) Close() error {
	if e.client != nil {
		e.client.Close()
	}
	return nil
}
