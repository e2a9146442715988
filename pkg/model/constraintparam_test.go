package model

import "testing"

func TestConstraintParameterTable_Resolve(t *testing.T) {
	t.Run("裸键兜底", func(t *testing.T) {
		table := ConstraintParameterTable{}
		table.Set("C2", "weeklyCapHours", "", 40)
		if got := table.Resolve("C2", "weeklyCapHours", SchemeA, false, 44); got != 40 {
			t.Errorf("Resolve() = %v, want 40", got)
		}
	})

	t.Run("General优先于裸键", func(t *testing.T) {
		table := ConstraintParameterTable{}
		table.Set("C2", "weeklyCapHours", "", 40)
		table.Set("C2", "weeklyCapHours", "General", 42)
		if got := table.Resolve("C2", "weeklyCapHours", SchemeA, false, 44); got != 42 {
			t.Errorf("Resolve() = %v, want 42", got)
		}
	})

	t.Run("制式专属优先于General", func(t *testing.T) {
		table := ConstraintParameterTable{}
		table.Set("C2", "weeklyCapHours", "General", 42)
		table.Set("C2", "weeklyCapHours", "P", 34.98)
		if got := table.Resolve("C2", "weeklyCapHours", SchemeP, false, 44); got != 34.98 {
			t.Errorf("Resolve() = %v, want 34.98", got)
		}
		if got := table.Resolve("C2", "weeklyCapHours", SchemeA, false, 44); got != 42 {
			t.Errorf("Resolve() for scheme A = %v, want 42 (scheme-P entry must not leak)", got)
		}
	})

	t.Run("APGD组合优先于制式专属", func(t *testing.T) {
		table := ConstraintParameterTable{}
		table.Set("C5", "minOffDaysPerWeek", "A", 1)
		table.Set("C5", "minOffDaysPerWeek", "A_APGD", 0)
		if got := table.Resolve("C5", "minOffDaysPerWeek", SchemeA, true, 1); got != 0 {
			t.Errorf("Resolve() with isAPGDD10=true = %v, want 0", got)
		}
		if got := table.Resolve("C5", "minOffDaysPerWeek", SchemeA, false, 1); got != 1 {
			t.Errorf("Resolve() with isAPGDD10=false = %v, want 1 (must not see the APGD override)", got)
		}
	})

	t.Run("无匹配项回退编译期默认值", func(t *testing.T) {
		table := ConstraintParameterTable{}
		if got := table.Resolve("C1", "dailyCapHours", SchemeB, false, 13); got != 13 {
			t.Errorf("Resolve() = %v, want the compiled default 13", got)
		}
	})
}
