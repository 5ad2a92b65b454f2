package reminder

import (
	"testing"
	"time"

	"github.com/phrazzld/tasktracker/internal/domain"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestRenderMessage(t *testing.T) {
	deadline := time.Date(2024, 9, 15, 15, 0, 0, 0, time.FixedZone("CEST", 2*60*60))

	tests := []struct {
		name        string
		task        domain.Task
		wantSubject string
	}{
		{
			name: "pay_bills",
			task: domain.Task{
				Title:       "Pay bills",
				Description: strPtr("Electricity and water"),
				Deadline:    &deadline,
			},
			wantSubject: "Reminder: Pay bills",
		},
		{
			name: "title_only",
			task: domain.Task{
				Title:       "Call mom",
				Description: strPtr("   "),
			},
			wantSubject: "Reminder: Call mom",
		},
		{
			name: "escaped",
			task: domain.Task{
				Title:       "Tom & Jerry's <party>",
				Description: strPtr(`"quoted" <b>bold</b>`),
			},
			wantSubject: "Reminder: Tom & Jerry's <party>",
		},
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := RenderMessage(&tt.task)

			assert.Equal(t, tt.wantSubject, msg.Subject)
			g.Assert(t, tt.name, []byte(msg.Body))
		})
	}
}
