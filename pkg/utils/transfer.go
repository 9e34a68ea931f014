package utils

import (
	"encoding/json"
	"strconv"
)

// Transfer 把 jwt claims 中的身份值统一转换为 int64，无法识别时返回 -1
func Transfer(value interface{}) int64 {
	switch v := value.(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	case json.Number:
		if intValue, err := v.Int64(); err == nil {
			return intValue
		}
	case string:
		if intValue, err := strconv.ParseInt(v, 10, 64); err == nil {
			return intValue
		}
	}
	return -1
}

func ConvertStringToInt64(v string) (int64, error) {
	if res, err := strconv.ParseInt(v, 10, 64); err != nil {
		return -1, err
	} else {
		return res, nil
	}
}

// ParseID 解析客户端传来的字符串ID，只接受正数
func ParseID(v string) (int64, bool) {
	id, err := ConvertStringToInt64(v)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
