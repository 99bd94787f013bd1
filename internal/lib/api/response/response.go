package response

const (
	statusOk    = "ok"
	statusError = "error"
)

// Response is the uniform JSON envelope for REST replies.
type Response struct {
	Status string      `json:"status"`
	Error  string      `json:"error,omitempty"`
	Data   interface{} `json:"data,omitempty"`
}

func Ok(data interface{}) Response {
	return Response{
		Status: statusOk,
		Data:   data,
	}
}

func Error(msg string) Response {
	return Response{
		Status: statusError,
		Error:  msg,
	}
}
