package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSeedSteps(t *testing.T) {
	steps := SeedSteps(42, 7)
	require.Len(t, steps, 3)

	require.Equal(t, StepTitleStart, steps[0].Title)
	require.Equal(t, StepTitleAcceptance, steps[1].Title)
	require.Equal(t, StepTitlePayment, steps[2].Title)

	// 只有启动步骤是已完成状态
	require.True(t, steps[0].Completed)
	require.False(t, steps[1].Completed)
	require.False(t, steps[2].Completed)

	for i, s := range steps {
		require.Equal(t, uint(42), s.ProjectID)
		require.Equal(t, uint(7), s.CreatedBy)
		require.Equal(t, i, s.SortOrder)
		require.True(t, s.Fixed)
	}
}

func TestStepProgress(t *testing.T) {
	tests := []struct {
		name      string
		completed []bool
		want      Progress
	}{
		{"空集合不除零", nil, Progress{Total: 0, Completed: 0, Percent: 0}},
		{"全部未完成", []bool{false, false}, Progress{Total: 2, Completed: 0, Percent: 0}},
		{"部分完成向下取整", []bool{true, false, false}, Progress{Total: 3, Completed: 1, Percent: 33}},
		{"三分之二", []bool{true, true, false}, Progress{Total: 3, Completed: 2, Percent: 66}},
		{"全部完成", []bool{true, true}, Progress{Total: 2, Completed: 2, Percent: 100}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var steps []ProjectStep
			for _, done := range tt.completed {
				steps = append(steps, ProjectStep{Completed: done})
			}
			require.Equal(t, tt.want, StepProgress(steps))
		})
	}
}

func TestStepProtected(t *testing.T) {
	require.True(t, (&ProjectStep{Fixed: true}).Protected())
	require.True(t, (&ProjectStep{Title: StepTitleAcceptanceDone}).Protected())
	require.False(t, (&ProjectStep{Title: "自定义步骤"}).Protected())
}
