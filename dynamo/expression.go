package dynamo

import (
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/jacentio/lattice/schema"
)

// expression is a translated query: one condition string with attribute
// names and values behind placeholders. keyable reports whether every
// comparison is legal inside a DynamoDB key condition; contains and exclude
// are filter-only, so their presence forces the scan path.
type expression struct {
	condition string
	names     map[string]string
	values    map[string]types.AttributeValue
	keyable   bool
}

// buildExpression translates a query into a DynamoDB condition expression.
// Fields are processed in name order so the output is deterministic.
// Membership conditions never reach this point; Fetch fans them out first.
func buildExpression(query schema.Query) (*expression, error) {
	expr := &expression{
		names:   make(map[string]string, len(query)),
		values:  make(map[string]types.AttributeValue),
		keyable: true,
	}

	var clauses []string
	i := 0
	for _, field := range sortedKeys(query) {
		cond := query[field]

		nameKey := fmt.Sprintf("#f%d", i)
		expr.names[nameKey] = field

		place := func(suffix string, value any) (string, error) {
			av, err := attributevalue.Marshal(value)
			if err != nil {
				return "", fmt.Errorf("dynamo: marshal %s: %w", field, err)
			}
			valueKey := fmt.Sprintf(":v%d%s", i, suffix)
			expr.values[valueKey] = av
			return valueKey, nil
		}

		switch cond.Op {
		case schema.OpEqual, schema.OpGreaterThan, schema.OpSmallerThan, schema.OpExclude:
			valueKey, err := place("", cond.Value())
			if err != nil {
				return nil, err
			}
			op := map[schema.Op]string{
				schema.OpEqual:       "=",
				schema.OpGreaterThan: ">",
				schema.OpSmallerThan: "<",
				schema.OpExclude:     "<>",
			}[cond.Op]
			clauses = append(clauses, fmt.Sprintf("%s %s %s", nameKey, op, valueKey))
			if cond.Op == schema.OpExclude {
				expr.keyable = false
			}

		case schema.OpBetween:
			if len(cond.Values) != 2 {
				return nil, fmt.Errorf("dynamo: between on %s needs two values, got %d", field, len(cond.Values))
			}
			low, err := place("a", cond.Values[0])
			if err != nil {
				return nil, err
			}
			high, err := place("b", cond.Values[1])
			if err != nil {
				return nil, err
			}
			clauses = append(clauses, fmt.Sprintf("%s BETWEEN %s AND %s", nameKey, low, high))

		case schema.OpContains:
			valueKey, err := place("", cond.Value())
			if err != nil {
				return nil, err
			}
			clauses = append(clauses, fmt.Sprintf("contains(%s, %s)", nameKey, valueKey))
			expr.keyable = false

		default:
			return nil, fmt.Errorf("dynamo: unsupported operator %s on %s", cond.Op, field)
		}
		i++
	}

	expr.condition = strings.Join(clauses, " AND ")
	return expr, nil
}
