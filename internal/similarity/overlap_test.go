package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOverlapCoefficient_Example(t *testing.T) {
	resume := []string{"python", "fastapi", "postgres"}
	job := []string{"python", "docker", "fastapi"}

	assert.Equal(t, 0.6667, OverlapCoefficient(resume, job))
	assert.Equal(t, []string{"fastapi", "python"}, SharedTags(resume, job))
	assert.Equal(t, "Shared skills: fastapi, python", SharedSkillsReason(SharedTags(resume, job)))
}

func TestOverlapCoefficient_Empty(t *testing.T) {
	assert.Equal(t, 0.0, OverlapCoefficient(nil, []string{"go"}))
	assert.Equal(t, 0.0, OverlapCoefficient([]string{"go"}, []string{}))
	assert.Equal(t, 0.0, OverlapCoefficient([]string{"", "!!"}, []string{"go"}))
}

func TestOverlapCoefficient_Symmetric(t *testing.T) {
	cases := [][2][]string{
		{{"Go", "Kubernetes", "gRPC"}, {"go", "docker"}},
		{{"C++", "C#"}, {"c #", "c++", "rust", "zig"}},
		{{"a"}, {"a", "b", "c", "d"}},
		{{"node.js", "React"}, {"Node JS", "react"}},
	}

	for _, c := range cases {
		assert.Equal(t, OverlapCoefficient(c[0], c[1]), OverlapCoefficient(c[1], c[0]))
	}
}

func TestOverlapCoefficient_NormalisesSeparators(t *testing.T) {
	assert.Equal(t, 1.0, OverlapCoefficient([]string{"Node.js"}, []string{"node js"}))
	assert.Equal(t, 0.0, OverlapCoefficient([]string{"C++"}, []string{"C #"}))
}

func TestOverlapCoefficient_DuplicatesCollapse(t *testing.T) {
	// {go} vs {go, rust}: 1 / sqrt(2)
	assert.Equal(t, 0.7071, OverlapCoefficient([]string{"Go", "go", "GO"}, []string{"go", "rust"}))
}

func TestSharedSkillsReason_CapsAtSix(t *testing.T) {
	shared := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	assert.Equal(t, "Shared skills: a, b, c, d, e, f", SharedSkillsReason(shared))
	assert.Equal(t, "", SharedSkillsReason(nil))
}

func TestTagSet(t *testing.T) {
	set := TagSet([]string{"Python", " python ", "", "Machine Learning", "###", "!!", "/"})

	assert.Len(t, set, 4)
	assert.Contains(t, set, "python")
	assert.Contains(t, set, "machine learning")
	assert.Contains(t, set, "###")
	assert.Contains(t, set, "")
}

func TestOverlapCoefficient_PunctuationOnlySkillCountsInDenominator(t *testing.T) {
	assert.Equal(t, 0.7071, OverlapCoefficient([]string{"Go", "!!"}, []string{"go"}))
	assert.Equal(t, 0.7071, OverlapCoefficient([]string{"go"}, []string{"Go", "/"}))
	assert.Equal(t, 0.0, OverlapCoefficient([]string{"!!"}, []string{"go"}))
}

func TestSharedTags_EmptyTag(t *testing.T) {
	assert.Equal(t, []string{"", "go"}, SharedTags([]string{"Go", "!!"}, []string{"go", "/"}))
	assert.Equal(t, []string{"go"}, SharedTags([]string{"Go", "!!"}, []string{"go"}))
}
