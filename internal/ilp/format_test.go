package ilp

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleOutput = `# First_Request
3
# Transition
3 1
1 2
# Last_Request
2
# Objective
14.5
# MipGap
0
`

func TestParseSections(t *testing.T) {
	sections, err := ParseSections([]byte(sampleOutput))
	require.NoError(t, err)
	require.Equal(t, []int{3}, sections.FirstRequest)
	require.Equal(t, [][2]int{{3, 1}, {1, 2}}, sections.Transitions)
	require.Equal(t, []int{2}, sections.LastRequest)
	require.InDelta(t, 14.5, sections.Objective, 1e-9)
}

func TestReconstructOrder(t *testing.T) {
	sections, err := ParseSections([]byte(sampleOutput))
	require.NoError(t, err)

	order := ReconstructOrder(sections)
	require.Equal(t, []int{3, 1, 2}, order)
}

func TestReconstructOrderSingleRequest(t *testing.T) {
	sections := Sections{FirstRequest: []int{7}, LastRequest: []int{7}}
	require.Equal(t, []int{7}, ReconstructOrder(sections))
}
