package response

// 业务码直接沿用 HTTP 语义；HTTP 状态统一 200，真实结果看 body.code
const (
	CodeOK           = 0
	CodeBadRequest   = 400
	CodeUnauthorized = 401
	CodeForbidden    = 403
	CodeNotFound     = 404
	CodeConflict     = 409
	CodeTooMany      = 429
	CodeServerError  = 500
	CodeBusy         = 503
	CodeTimeout      = 504
)

// CodeMsgMap 默认 msg；Error 传入自定义 msg 时覆盖
var CodeMsgMap = map[int]string{
	CodeOK:           "OK",
	CodeBadRequest:   "Bad Request",
	CodeUnauthorized: "Unauthorized",
	CodeForbidden:    "Forbidden",
	CodeNotFound:     "Not Found",
	CodeConflict:     "Conflict",
	CodeTooMany:      "Too Many Requests",
	CodeServerError:  "Internal Server Error",
	CodeBusy:         "Service Busy",
	CodeTimeout:      "Timeout",
}
