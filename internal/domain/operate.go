package domain

import "strings"

// OperateType is the warehouse action a Transaction records.
type OperateType string

const (
	OperateReceive OperateType = "receive"
	OperatePutaway OperateType = "putaway"
)

// ParseOperateType returns the canonical operate type for s (case-insensitive).
func ParseOperateType(s string) (OperateType, bool) {
	switch OperateType(strings.ToLower(strings.TrimSpace(s))) {
	case OperateReceive:
		return OperateReceive, true
	case OperatePutaway:
		return OperatePutaway, true
	}
	return "", false
}

// NormalizeOperateType maps missing or unknown values to receive.
func NormalizeOperateType(s string) OperateType {
	if op, ok := ParseOperateType(s); ok {
		return op
	}
	return OperateReceive
}

// Valid reports whether o is already in canonical form.
func (o OperateType) Valid() bool {
	return o == OperateReceive || o == OperatePutaway
}
