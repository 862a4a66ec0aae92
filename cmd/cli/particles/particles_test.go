package particles_test

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/myrjola/reaksi/cmd/cli/particles"
	"github.com/myrjola/reaksi/internal/layout"
	"github.com/stretchr/testify/require"
)

func TestLayout(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		var out bytes.Buffer
		particles.Layout.SetOut(&out)
		particles.Layout.SetArgs([]string{"--red", "10", "--json"})
		require.NoError(t, particles.Layout.ExecuteContext(context.Background()))

		var boxes []struct {
			Seconds   int               `json:"seconds"`
			Red       int               `json:"red"`
			Blue      int               `json:"blue"`
			Positions []layout.Position `json:"positions"`
		}
		require.NoError(t, json.Unmarshal(out.Bytes(), &boxes))
		require.Len(t, boxes, 3)
		for i, want := range [][2]int{{10, 0}, {6, 4}, {2, 8}} {
			require.Equal(t, want, [2]int{boxes[i].Red, boxes[i].Blue})
			require.Len(t, boxes[i].Positions, 10)
		}
	})

	t.Run("summary", func(t *testing.T) {
		var out bytes.Buffer
		particles.Layout.SetOut(&out)
		particles.Layout.SetArgs([]string{"--red", "4", "--json=false"})
		require.NoError(t, particles.Layout.ExecuteContext(context.Background()))

		lines := strings.Split(strings.TrimSpace(out.String()), "\n")
		require.Len(t, lines, 4)
		require.Equal(t, []string{"t", "red", "blue", "placed", "overlapping"}, strings.Fields(lines[0]))
		require.Equal(t, []string{"10s", "2", "2", "4", "0"}, strings.Fields(lines[2]))
	})
}
