package handler

import "github.com/park285/ecofy-server-go/internal/handler/shared"

// shared 패키지 헬퍼의 패키지 내부 별칭.
var (
	writeError         = shared.WriteError
	bindJSON           = shared.BindJSON
	bindJSONAllowEmpty = shared.BindJSONAllowEmpty
)
