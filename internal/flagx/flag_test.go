package flagx

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	allowed := []string{"-c", "--config"}

	tests := []struct {
		name    string
		args    []string
		allowed []string
		want    []string
	}{
		{
			name:    "separate value form kept, foreign flags dropped",
			args:    []string{"-c", "conf.json", "-a", ":8080"},
			allowed: allowed,
			want:    []string{"-c", "conf.json"},
		},
		{
			name:    "equals form kept whole",
			args:    []string{"--config=alt.json", "-a", ":8080"},
			allowed: allowed,
			want:    []string{"--config=alt.json"},
		},
		{
			name:    "order preserved when both forms appear",
			args:    []string{"--config=first.json", "-c", "second.json", "-x", "1"},
			allowed: allowed,
			want:    []string{"--config=first.json", "-c", "second.json"},
		},
		{
			name:    "nothing allowed yields empty non-nil slice",
			args:    []string{"-x", "1", "--y=2", "positional"},
			allowed: allowed,
			want:    []string{},
		},
		{
			name:    "trailing flag without value survives",
			args:    []string{"-c"},
			allowed: allowed,
			want:    []string{"-c"},
		},
		{
			name:    "dash-prefixed follower is not consumed as a value",
			args:    []string{"-c", "--config=alt.json"},
			allowed: allowed,
			want:    []string{"-c", "--config=alt.json"},
		},
		{
			name:    "several allowed flags pass together",
			args:    []string{"-a", "localhost:8080", "-c", "conf.json", "--other", "x"},
			allowed: []string{"-c", "-a"},
			want:    []string{"-a", "localhost:8080", "-c", "conf.json"},
		},
		{
			name:    "repeated flag keeps every occurrence",
			args:    []string{"-c", "one.json", "-c", "two.json"},
			allowed: []string{"-c"},
			want:    []string{"-c", "one.json", "-c", "two.json"},
		},
		{
			name:    "empty input",
			args:    []string{},
			allowed: allowed,
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowed))
		})
	}
}

func TestJsonConfigFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"short form", []string{"bin", "-c", "/etc/app/short.json"}, "/etc/app/short.json"},
		{"long form", []string{"bin", "-config", "/etc/app/long.json"}, "/etc/app/long.json"},
		{"no config flag", []string{"bin", "-x", "1", "-y", "2"}, ""},
		{"last occurrence wins", []string{"bin", "-c", "/a.json", "-config", "/b.json"}, "/b.json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args
			assert.Equal(t, tt.want, JsonConfigFlags())
		})
	}
}
