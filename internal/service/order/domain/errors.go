// internal/service/order/domain/errors.go
package domain

import (
	"github.com/pkg/errors"
)

// 领域错误分三类，接口层据此映射 HTTP 状态码：
// 不被允许（业务规则拒绝）、不存在、数据不合法。
var (
	ErrNotAllowed  = errors.New("not allowed")
	ErrNotFound    = errors.New("not found")
	ErrInvalidData = errors.New("invalid data")
)

// NotAllowed 返回一个带场景描述的"不被允许"错误。
func NotAllowed(format string, args ...interface{}) error {
	return errors.Wrapf(ErrNotAllowed, format, args...)
}

// NotFound 返回一个带场景描述的"不存在"错误。
func NotFound(format string, args ...interface{}) error {
	return errors.Wrapf(ErrNotFound, format, args...)
}

// InvalidData 返回一个带场景描述的"数据不合法"错误。
func InvalidData(format string, args ...interface{}) error {
	return errors.Wrapf(ErrInvalidData, format, args...)
}
