package services

import (
	"errors"
	"net/http"
)

// 错误分类。所有业务层函数返回的错误都用 fmt.Errorf("%w: ...") 包装
// 其中之一，handler 侧通过 errors.Is 区分，不吞掉具体原因。
var (
	// 目标不存在或已停用
	ErrNotFound = errors.New("not found")
	// 唯一约束冲突
	ErrConflict = errors.New("conflict")
	// 角色/所有权不允许
	ErrForbidden = errors.New("forbidden")
	// 输入不合法
	ErrValidation = errors.New("validation")
	// 业务规则拒绝（采纳未通过）
	ErrRejected = errors.New("rejected")
)

// HTTPStatus 把错误分类映射到响应状态码
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrRejected):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
