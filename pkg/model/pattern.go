package model

// Pattern cell codes.
const (
	CellOff        = "O" // 休息
	CellUnassigned = "U" // ICPMP 注入的刻意不分配
)

// WorkPattern 有限有序的班次代码循环序列
type WorkPattern struct {
	Codes []string `json:"codes"` // 取值 {D,N,E,O,U,...}
}

// Length 返回循环长度 L
func (p WorkPattern) Length() int {
	return len(p.Codes)
}

// CellAt 返回日期 d 相对 anchor 的刻度编号 (d-anchor) mod L，使用
// 一个已经按 offset 旋转过的 pattern；调用方必须保证 offset 只施加一次
// (§3 invariant — rotation-applied-twice 是历史缺陷，这里不重新旋转)。
func (p WorkPattern) CellAt(daysSinceAnchor int) string {
	L := p.Length()
	if L == 0 {
		return CellOff
	}
	idx := daysSinceAnchor % L
	if idx < 0 {
		idx += L
	}
	return p.Codes[idx]
}

// Rotated 返回按 offset 旋转后的新 pattern：旋转后下标 0 对应原序列下标 offset。
func (p WorkPattern) Rotated(offset int) WorkPattern {
	L := p.Length()
	if L == 0 {
		return p
	}
	off := offset % L
	if off < 0 {
		off += L
	}
	rotated := make([]string, L)
	for i := 0; i < L; i++ {
		rotated[i] = p.Codes[(i+off)%L]
	}
	return WorkPattern{Codes: rotated}
}

// WorkDayCount 返回非 'O'/'U' 刻度的数量
func (p WorkPattern) WorkDayCount() int {
	n := 0
	for _, c := range p.Codes {
		if c != CellOff && c != CellUnassigned {
			n++
		}
	}
	return n
}

// OffDayCount 返回 'O' 刻度数量
func (p WorkPattern) OffDayCount() int {
	n := 0
	for _, c := range p.Codes {
		if c == CellOff {
			n++
		}
	}
	return n
}

// LongestConsecutiveWorkRun 扫描 pattern 与自身拼接后的序列，返回最长的
// 非 'O' 连续运行长度，用于 wrap-around 最大连续工作日校验。U 视为工作日
// (它仍占据一个日历日，只是没有分配变量)。
func (p WorkPattern) LongestConsecutiveWorkRun() int {
	L := p.Length()
	if L == 0 {
		return 0
	}
	doubled := make([]string, 0, 2*L)
	doubled = append(doubled, p.Codes...)
	doubled = append(doubled, p.Codes...)

	longest, current := 0, 0
	for _, c := range doubled {
		if c != CellOff {
			current++
			if current > longest {
				longest = current
			}
		} else {
			current = 0
		}
	}
	return longest
}
