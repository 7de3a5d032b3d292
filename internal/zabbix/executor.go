package zabbix

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/ops-agent/backend/internal/nlq"
	"github.com/ops-agent/backend/pkg/logger"
)

// Executor runs RPC artifacts produced by the query engine against the
// monitoring backend. Mutating methods require explicit approval and
// honor dry-run mode.
type Executor struct {
	client *Client
	dryRun bool
}

// ExecutionResult reports what happened to one artifact.
type ExecutionResult struct {
	Method   string          `json:"method"`
	HostIDs  []string        `json:"hostids,omitempty"`
	DryRun   bool            `json:"dry_run"`
	Response json.RawMessage `json:"response,omitempty"`
}

func NewExecutor(client *Client, dryRun bool) *Executor {
	return &Executor{
		client: client,
		dryRun: dryRun,
	}
}

// Execute resolves the artifact's host reference to backend IDs and
// performs the call. Mutating methods (maintenance.create) are only sent
// when approved and not in dry-run mode; otherwise the resolved plan is
// returned without touching the backend.
func (e *Executor) Execute(ctx context.Context, artifact nlq.RPCArtifact, host string, approved bool) (*ExecutionResult, error) {
	result := &ExecutionResult{
		Method: artifact.Method,
		DryRun: e.dryRun,
	}

	params := make(map[string]interface{}, len(artifact.Params))
	for k, v := range artifact.Params {
		params[k] = v
	}

	if host != "" {
		ids, err := e.client.ResolveHostIDs(ctx, host)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve host: %w", err)
		}
		if len(ids) == 0 {
			return nil, fmt.Errorf("host %q not found in monitoring backend", host)
		}
		params["hostids"] = ids
		result.HostIDs = ids
	}

	if isMutating(artifact.Method) {
		if !approved {
			return nil, fmt.Errorf("method %s requires approval", artifact.Method)
		}
		if e.dryRun {
			logger.Info("Dry run: skipping mutating call",
				zap.String("method", artifact.Method),
				zap.Strings("hostids", result.HostIDs),
			)
			return result, nil
		}
	}

	response, err := e.client.Call(ctx, artifact.Method, params)
	if err != nil {
		return nil, fmt.Errorf("failed to execute %s: %w", artifact.Method, err)
	}

	logger.Info("RPC artifact executed",
		zap.String("method", artifact.Method),
		zap.Strings("hostids", result.HostIDs),
	)

	result.Response = response
	return result, nil
}

func isMutating(method string) bool {
	switch method {
	case "maintenance.create", "maintenance.update", "maintenance.delete":
		return true
	default:
		return false
	}
}
