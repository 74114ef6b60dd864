package meters

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormat_Padding(t *testing.T) {
	tests := []struct {
		name    string
		padding int
		suffix  string
		val     int
		want    string
	}{
		{name: "pads below width", padding: 3, suffix: "KPH", val: 42, want: "042KPH"},
		{name: "zero value", padding: 3, suffix: "KPH", val: 0, want: "000KPH"},
		{name: "full width", padding: 3, suffix: "KPH", val: 321, want: "321KPH"},
		{name: "overflows width", padding: 3, suffix: "KPH", val: 1234, want: "1234KPH"},
		{name: "no suffix", padding: 1, suffix: "", val: 3, want: "3"},
		{name: "four digits", padding: 4, suffix: "RPM", val: 850, want: "0850RPM"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New(tt.padding, tt.suffix)
			assert.Equal(t, tt.want, m.Format(tt.val))
		})
	}
}

func TestSet_ReportsChanges(t *testing.T) {
	m := New(3, "KPH")

	assert.True(t, m.Set(0), "first reading renders")
	assert.Equal(t, "000KPH", m.Text())

	assert.False(t, m.Set(0), "same reading skips the render")
	assert.True(t, m.Set(120))
	assert.Equal(t, "120KPH", m.Text())
}

func TestFormat_DoesNotUpdateState(t *testing.T) {
	m := New(3, "KPH")
	m.Set(50)

	_ = m.Format(99)

	assert.Equal(t, "050KPH", m.Text())
	assert.False(t, m.Set(50))
}

func TestDashboardMeters(t *testing.T) {
	assert.Equal(t, "042KPH", Speedmeter().Format(42))
	assert.Equal(t, "6500RPM", Tachometer().Format(6500))
	assert.Equal(t, "3", GearIndicator().Format(3))
}
