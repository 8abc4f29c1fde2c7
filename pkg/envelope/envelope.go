package envelope

import "encoding/json"

// 所有对外接口统一返回这个信封结构，HTTP 状态码恒为 200，成败信息在信封里。
// 成功分支的 payload 是已经序列化好的 JSON 文本，原样嵌入，不做二次转义。

type failureBody struct {
	IsSuccess    bool   `json:"isSuccess"`
	ErrorMessage string `json:"errorMessage"`
}

// Success 包装成功响应
func Success(payload string) string {
	return `{"isSuccess": true, "payload": ` + payload + `}`
}

// Failure 包装失败响应
func Failure(err error) string {
	body, marshalErr := json.Marshal(failureBody{IsSuccess: false, ErrorMessage: err.Error()})
	if marshalErr != nil {
		// err.Error() 含有无法序列化的内容时兜底
		return `{"isSuccess": false, "errorMessage": "internal error"}`
	}
	return string(body)
}

// Execute 执行操作并把结果包装成信封
func Execute(op func() (string, error)) string {
	payload, err := op()
	if err != nil {
		return Failure(err)
	}
	return Success(payload)
}
