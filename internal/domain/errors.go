package domain

import "errors"

// ErrNotFound 仓储层更新时目标行已不存在（例如被并发事务删除）
var ErrNotFound = errors.New("record not found")
