package database

type Operation string

const (
	OperationSelect Operation = "select"
	OperationInsert Operation = "insert"
	OperationUpdate Operation = "update"
	OperationDelete Operation = "delete"
	OperationUpsert Operation = "upsert"
)

type Operator string

const (
	OperatorEqual              Operator = "="
	OperatorNotEqual           Operator = "!="
	OperatorGreaterThan        Operator = ">"
	OperatorGreaterThanOrEqual Operator = ">="
	OperatorLessThan           Operator = "<"
	OperatorLessThanOrEqual    Operator = "<="
	OperatorLike               Operator = "LIKE"
	OperatorILike              Operator = "ILIKE"
	OperatorIs                 Operator = "IS"
	OperatorIsNot              Operator = "IS NOT"
	OperatorIn                 Operator = "IN"
)

type condition struct {
	Column   string
	Operator Operator
	Value    any
	Values   []any
}
