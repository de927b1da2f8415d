package parquet

import (
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/schema"

	"github.com/gear6io/pqview/server/table"
)

// describeFields lists the top-level fields of a file schema in declared
// order. leaf[i] is the leaf column index of field i when the field is
// primitive, -1 for groups.
func describeFields(sc *schema.Schema) (fields []table.Field, leaf []int) {
	root := sc.Root()
	fields = make([]table.Field, root.NumFields())
	leaf = make([]int, root.NumFields())

	for i := 0; i < root.NumFields(); i++ {
		node := root.Field(i)
		fields[i] = table.Field{
			Name:       node.Name(),
			Type:       physicalType(node),
			Repetition: repetition(node.RepetitionType()),
			Annotation: annotation(node),
		}
		leaf[i] = -1
	}

	for j := 0; j < sc.NumColumns(); j++ {
		top := root.FieldIndexByField(sc.ColumnRoot(j))
		if top < 0 {
			continue
		}
		if _, ok := root.Field(top).(*schema.PrimitiveNode); ok {
			leaf[top] = j
		}
	}

	return fields, leaf
}

func physicalType(node schema.Node) table.PhysicalType {
	prim, ok := node.(*schema.PrimitiveNode)
	if !ok {
		return table.PhysicalGroup
	}

	switch prim.PhysicalType() {
	case parquet.Types.Boolean:
		return table.PhysicalBoolean
	case parquet.Types.Int32:
		return table.PhysicalInt32
	case parquet.Types.Int64:
		return table.PhysicalInt64
	case parquet.Types.Int96:
		return table.PhysicalInt96
	case parquet.Types.Float:
		return table.PhysicalFloat
	case parquet.Types.Double:
		return table.PhysicalDouble
	case parquet.Types.ByteArray:
		return table.PhysicalByteArray
	case parquet.Types.FixedLenByteArray:
		return table.PhysicalFixedLenByteArray
	default:
		return table.PhysicalType(prim.PhysicalType().String())
	}
}

func repetition(r parquet.Repetition) table.Repetition {
	switch r {
	case parquet.Repetitions.Required:
		return table.Required
	case parquet.Repetitions.Repeated:
		return table.Repeated
	default:
		return table.Optional
	}
}

// annotation names the logical type of node. Files written before logical
// types existed only carry a converted type, so ENUM is checked there too.
func annotation(node schema.Node) string {
	if lt := node.LogicalType(); lt != nil && lt.IsValid() && !lt.IsNone() {
		return lt.String()
	}
	if node.ConvertedType() == schema.ConvertedTypes.Enum {
		return "Enum"
	}
	return ""
}
