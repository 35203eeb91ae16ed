// Package cfnread reads deployed stack state through the aws CLI.
package cfnread

import (
	"context"
	"encoding/json"

	"github.com/cockroachdb/errors"
	"github.com/dev0psfyi/website/cmd/internal/cmdexec"
)

type describeStacksResponse struct {
	Stacks []struct {
		Outputs []struct {
			OutputKey   string `json:"OutputKey"`
			OutputValue string `json:"OutputValue"`
		} `json:"Outputs"`
	} `json:"Stacks"`
}

// StackOutputs returns the outputs of a deployed stack by key.
func StackOutputs(ctx context.Context, region, stackName string, awsArgs ...string) (map[string]string, error) {
	args := []string{
		"cloudformation", "describe-stacks",
		"--no-cli-pager",
		"--region", region,
		"--stack-name", stackName,
		"--output", "json",
	}
	args = append(args, awsArgs...)

	out, err := cmdexec.Output(ctx, "/", "aws", args...)
	if err != nil {
		return nil, errors.Wrapf(err, "describing stack %s in %s", stackName, region)
	}
	outputs, err := ParseOutputs([]byte(out))
	if err != nil {
		return nil, errors.Wrapf(err, "stack %s in %s", stackName, region)
	}
	return outputs, nil
}

// ParseOutputs decodes a describe-stacks response.
func ParseOutputs(data []byte) (map[string]string, error) {
	var resp describeStacksResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, errors.Wrap(err, "parsing stack outputs")
	}
	if len(resp.Stacks) == 0 {
		return nil, errors.New("stack not found")
	}

	outputs := make(map[string]string, len(resp.Stacks[0].Outputs))
	for _, o := range resp.Stacks[0].Outputs {
		outputs[o.OutputKey] = o.OutputValue
	}
	return outputs, nil
}
