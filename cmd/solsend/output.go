package main

import (
	"encoding/json"
	"fmt"

	"github.com/itchyny/gojq"
)

// printJSON marshals v and prints it to stdout, optionally shaped by a jq
// filter. Filter results are printed one per line, JSON-encoded unless the
// result is a bare string.
func printJSON(v any, jqFilter string) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}

	if jqFilter == "" {
		fmt.Println(string(data))
		return nil
	}

	// gojq operates on decoded values, not raw JSON bytes.
	var input any
	if err := json.Unmarshal(data, &input); err != nil {
		return fmt.Errorf("failed to decode output for jq: %w", err)
	}

	results, err := applyJQFilter(jqFilter, input)
	if err != nil {
		return err
	}
	for _, result := range results {
		if s, ok := result.(string); ok {
			fmt.Println(s)
			continue
		}
		out, err := json.Marshal(result)
		if err != nil {
			return fmt.Errorf("failed to marshal jq result: %w", err)
		}
		fmt.Println(string(out))
	}
	return nil
}

// applyJQFilter compiles and runs a jq filter over input, collecting all
// emitted values.
func applyJQFilter(filter string, input any) ([]any, error) {
	query, err := gojq.Parse(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to parse jq filter %q: %w", filter, err)
	}
	code, err := gojq.Compile(query)
	if err != nil {
		return nil, fmt.Errorf("failed to compile jq filter %q: %w", filter, err)
	}

	var results []any
	iter := code.Run(input)
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if err, isErr := v.(error); isErr {
			return nil, fmt.Errorf("jq filter error: %w", err)
		}
		results = append(results, v)
	}
	return results, nil
}
