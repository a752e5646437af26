// Command lattice administers DynamoDB tables declared as lattice schemas.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/spf13/cobra"

	"github.com/jacentio/lattice/dynamo"
	"github.com/jacentio/lattice/schema"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "lattice",
		Short:         "Administer DynamoDB tables declared as lattice schemas",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(createTableCmd())
	return root
}

func createTableCmd() *cobra.Command {
	var (
		hashKey  string
		rangeKey string
		globals  []string
		locals   []string
		readCap  int64
		writeCap int64
		endpoint string
	)

	cmd := &cobra.Command{
		Use:   "create-table <name>",
		Short: "Provision a DynamoDB table from its index declarations",
		Long: `Provision a DynamoDB table from its index declarations.

Keys are declared as name:kind pairs, where kind is string, int, or float.
Secondary indexes are declared as name=hash[:kind][,range[:kind]].

Example:

  lattice create-table users \
      --hash id:string \
      --global by_username=username:string \
      --read-capacity 5 --write-capacity 5`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
			tableName := args[0]

			fields := make(map[string]schema.Field)
			indexes := make([]schema.Index, 0, 1+len(globals)+len(locals))

			primary := schema.Index{
				Type:          schema.Primary,
				ReadCapacity:  readCap,
				WriteCapacity: writeCap,
			}
			var err error
			if primary.HashKey, err = declareKey(hashKey, fields); err != nil {
				return err
			}
			if rangeKey != "" {
				if primary.RangeKey, err = declareKey(rangeKey, fields); err != nil {
					return err
				}
			}
			indexes = append(indexes, primary)

			for _, spec := range globals {
				index, err := declareIndex(schema.Global, spec, fields, readCap, writeCap)
				if err != nil {
					return err
				}
				indexes = append(indexes, index)
			}
			for _, spec := range locals {
				index, err := declareIndex(schema.Local, spec, fields, readCap, writeCap)
				if err != nil {
					return err
				}
				indexes = append(indexes, index)
			}

			cfg, err := config.LoadDefaultConfig(cmd.Context())
			if err != nil {
				return fmt.Errorf("load aws config: %w", err)
			}
			client := dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
				if endpoint != "" {
					o.BaseEndpoint = aws.String(endpoint)
				}
			})

			table := dynamo.New(client, tableName)
			schema.New(table, indexes, fields)

			if err := table.CreateTable(cmd.Context()); err != nil {
				return err
			}
			logger.Info("table created", "table", tableName, "indexes", len(indexes))
			return nil
		},
	}

	cmd.Flags().StringVar(&hashKey, "hash", "", "primary hash key as name:kind (required)")
	cmd.Flags().StringVar(&rangeKey, "range", "", "primary range key as name:kind")
	cmd.Flags().StringArrayVar(&globals, "global", nil, "global secondary index as name=hash[:kind][,range[:kind]] (repeatable)")
	cmd.Flags().StringArrayVar(&locals, "local", nil, "local secondary index as name=hash[:kind][,range[:kind]] (repeatable)")
	cmd.Flags().Int64Var(&readCap, "read-capacity", 1, "provisioned read capacity units")
	cmd.Flags().Int64Var(&writeCap, "write-capacity", 1, "provisioned write capacity units")
	cmd.Flags().StringVar(&endpoint, "endpoint", "", "override the DynamoDB endpoint (e.g. a local instance)")
	cmd.MarkFlagRequired("hash")

	return cmd
}

// declareKey parses a name:kind key declaration and records its field.
// The kind defaults to string when omitted.
func declareKey(spec string, fields map[string]schema.Field) (string, error) {
	name, kindName, _ := strings.Cut(spec, ":")
	if name == "" {
		return "", fmt.Errorf("empty key declaration %q", spec)
	}

	var kind schema.Kind
	switch kindName {
	case "", "string":
		kind = schema.String
	case "int":
		kind = schema.Int
	case "float":
		kind = schema.Float
	default:
		return "", fmt.Errorf("key %s: unsupported kind %q", name, kindName)
	}

	if _, ok := fields[name]; !ok {
		fields[name] = schema.Field{Kind: kind}
	}
	return name, nil
}

// declareIndex parses a name=hash[,range] secondary index declaration.
func declareIndex(typ schema.IndexType, spec string, fields map[string]schema.Field, readCap, writeCap int64) (schema.Index, error) {
	name, keys, found := strings.Cut(spec, "=")
	if !found || name == "" || keys == "" {
		return schema.Index{}, fmt.Errorf("invalid index declaration %q, want name=hash[,range]", spec)
	}

	index := schema.Index{
		Type:          typ,
		Name:          name,
		ReadCapacity:  readCap,
		WriteCapacity: writeCap,
	}

	hash, rng, _ := strings.Cut(keys, ",")
	var err error
	if index.HashKey, err = declareKey(hash, fields); err != nil {
		return schema.Index{}, err
	}
	if rng != "" {
		if index.RangeKey, err = declareKey(rng, fields); err != nil {
			return schema.Index{}, err
		}
	}
	return index, nil
}
