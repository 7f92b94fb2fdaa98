package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/invopop/jsonschema"
	"github.com/spf13/cobra"

	"github.com/o0olele/navmesh-go/config"
	"github.com/o0olele/navmesh-go/server"
)

var schemaTargets = map[string]func() any{
	"build":  func() any { return new(server.BuildRequest) },
	"path":   func() any { return new(server.PathfindRequest) },
	"config": func() any { return new(config.Config) },
}

func SchemaCmd() *cobra.Command {
	var outPath string
	c := &cobra.Command{
		Use:       "schema build|path|config",
		Short:     "print the json schema of a request or of the config file",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"build", "path", "config"},
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, err := buildSchema(args[0])
			if err != nil {
				return err
			}
			if outPath == "" {
				data, err := json.MarshalIndent(schema, "", "  ")
				if err != nil {
					return fmt.Errorf("marshal schema: %w", err)
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return err
			}
			return writeSchema(outPath, schema)
		},
	}
	c.Flags().StringVar(&outPath, "out", "", "write the schema to this file")
	return c
}

func buildSchema(target string) (*jsonschema.Schema, error) {
	newTarget, ok := schemaTargets[target]
	if !ok {
		return nil, fmt.Errorf("unknown schema %q", target)
	}
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		ExpandedStruct:            true,
	}
	schema := reflector.Reflect(newTarget())
	schema.Title = "navmesh " + target
	return schema, nil
}

func writeSchema(outPath string, schema *jsonschema.Schema) error {
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create schema directory: %w", err)
	}

	tmpPath := outPath + ".tmp"
	if err := os.WriteFile(tmpPath, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write temp schema: %w", err)
	}

	if err := os.Rename(tmpPath, outPath); err != nil {
		return fmt.Errorf("replace schema: %w", err)
	}

	return nil
}
