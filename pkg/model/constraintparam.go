package model

import "fmt"

// ConstraintParameter 一条已解析的约束参数 (constraint-id, parameter-name, 取值)
type ConstraintParameter struct {
	ConstraintID string  `json:"constraint_id"`
	ParamName    string  `json:"param_name"`
	Value        float64 `json:"value"`
}

// ConstraintParameterTable 保存原始输入的约束参数，按
// "{constraint-id}.{param-name}.{suffix}" 为键；suffix 为空字符串
// 表示裸键 (bare，未加任何后缀的配置)。
type ConstraintParameterTable map[string]float64

func paramKey(constraintID, paramName, suffix string) string {
	if suffix == "" {
		return constraintID + "." + paramName
	}
	return constraintID + "." + paramName + "." + suffix
}

// Set 写入一条带后缀的参数值；suffix 可为 "General"、制式名、
// "{scheme}_APGD"，或空字符串表示裸键。
func (t ConstraintParameterTable) Set(constraintID, paramName, suffix string, value float64) {
	t[paramKey(constraintID, paramName, suffix)] = value
}

// Resolve 按四级优先顺序解析参数值：
//  1. scheme + APGD-D10  (例如 "A_APGD")
//  2. scheme 专属         (例如 "A")
//  3. "General"
//  4. 裸键 (无后缀)
//  5. 编译期默认值 compiledDefault
//
// 这是 §3/§9 要求的唯一集中解析器，避免各处散落的默认值造成的回归。
func (t ConstraintParameterTable) Resolve(constraintID, paramName string, scheme Scheme, isAPGDD10 bool, compiledDefault float64) float64 {
	if isAPGDD10 {
		if v, ok := t[paramKey(constraintID, paramName, fmt.Sprintf("%s_APGD", scheme))]; ok {
			return v
		}
	}
	if v, ok := t[paramKey(constraintID, paramName, string(scheme))]; ok {
		return v
	}
	if v, ok := t[paramKey(constraintID, paramName, "General")]; ok {
		return v
	}
	if v, ok := t[paramKey(constraintID, paramName, "")]; ok {
		return v
	}
	return compiledDefault
}
