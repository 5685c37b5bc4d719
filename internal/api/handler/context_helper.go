package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mamunbiswass/school-management/pkg/response"
)

// MustGetID 从路径参数中解析正整数 ID。
// 解析失败时写入 400 响应并返回 false，调用方应直接 return。
func MustGetID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, 10001, "ID 格式无效")
		return 0, false
	}
	return id, true
}

// MustGetParam 读取非空路径参数
func MustGetParam(c *gin.Context, name string) (string, bool) {
	v := c.Param(name)
	if v == "" {
		response.BadRequest(c, 10001, name+" 不能为空")
		return "", false
	}
	return v, true
}
