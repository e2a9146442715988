package model

// MonthlyHourLimitValues 按月长（28/29/30/31天）区分的数值
type MonthlyHourLimitValues struct {
	MaxOvertimeHours        float64 `json:"max_overtime_hours"`
	MinimumContractualHours float64 `json:"minimum_contractual_hours"`
	TotalMaxHours           float64 `json:"total_max_hours,omitempty"` // 0 = 未设置
}

// MonthlyHourLimitRule 适用性过滤器 + 核算方法 + 按月长取值的规则
type MonthlyHourLimitRule struct {
	Schemes      []Scheme         `json:"schemes"`       // 空或含 "All" = 全部制式
	ProductTypes []string         `json:"product_types"` // 空或含 "All" = 全部
	Ranks        []string         `json:"ranks"`         // 空或含 "All" = 全部
	Method       AccountingMethod `json:"method"`

	// ValuesByMonthLength 键为月份天数 (28,29,30,31)
	ValuesByMonthLength map[int]MonthlyHourLimitValues `json:"values_by_month_length"`
}

func containsOrAll(list []string, v string) bool {
	if len(list) == 0 {
		return true
	}
	for _, item := range list {
		if item == "All" || item == v {
			return true
		}
	}
	return false
}

func schemesContainOrAll(list []Scheme, s Scheme) bool {
	if len(list) == 0 {
		return true
	}
	for _, item := range list {
		if string(item) == "All" || item == s {
			return true
		}
	}
	return false
}

// Applies 判断该规则是否适用于给定的制式/product-type/rank 组合
func (r MonthlyHourLimitRule) Applies(scheme Scheme, productType, rank string) bool {
	return schemesContainOrAll(r.Schemes, scheme) &&
		containsOrAll(r.ProductTypes, productType) &&
		containsOrAll(r.Ranks, rank)
}

// ValuesFor 返回给定月份天数对应的数值；不存在则返回零值与 false。
func (r MonthlyHourLimitRule) ValuesFor(daysInMonth int) (MonthlyHourLimitValues, bool) {
	v, ok := r.ValuesByMonthLength[daysInMonth]
	return v, ok
}

// MonthlyHourLimitRules 是一组按优先顺序排列的规则；调用方应把更具体的
// 规则排在前面，把 scheme/productType/ranks 都留空（或全为 "All"）的
// 兜底规则放在最后。
type MonthlyHourLimitRules []MonthlyHourLimitRule

// Resolve 按 §4.1 的规则解析步骤，返回第一条适用于给定
// scheme/productType/rank 组合的规则；全部不适用时返回 ok=false。
func (rules MonthlyHourLimitRules) Resolve(scheme Scheme, productType, rank string) (MonthlyHourLimitRule, bool) {
	for _, r := range rules {
		if r.Applies(scheme, productType, rank) {
			return r, true
		}
	}
	return MonthlyHourLimitRule{}, false
}
