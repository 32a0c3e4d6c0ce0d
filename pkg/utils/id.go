package utils

import (
	"strings"

	"github.com/google/uuid"
)

// NewID 生成 32 位无连字符 uuid，作为所有表的主键
func NewID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
