package resp

const (
	CodeOK            = 0
	CodeQueued        = 0
	CodeBadRequest    = 40000
	CodeUnauthorized  = 40100
	CodeNotFound      = 40400
	CodeInternalError = 50000
)
