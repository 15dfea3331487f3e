package wire

import (
	"encoding/json"
	"testing"
)

func TestMessageSerialization(t *testing.T) {
	tests := []struct {
		name string
		msg  Message
		want string
	}{
		{
			name: "error",
			msg:  Error([]string{"The specified live quiz does not exist."}),
			want: `{"type":"error","payload":["The specified live quiz does not exist."]}`,
		},
		{
			name: "info",
			msg:  Info("Connected successfully."),
			want: `{"type":"info","payload":"Connected successfully."}`,
		},
		{
			name: "set view",
			msg:  SetView("question", map[string]interface{}{"id": 1}),
			want: `{"type":"set view","payload":{"view":"question","data":{"id":1}}}`,
		},
		{
			name: "terminated",
			msg:  Terminated(),
			want: `{"type":"terminated","payload":{}}`,
		},
		{
			name: "buzz none",
			msg:  BuzzNoneEvent(),
			want: `{"type":"buzz event","payload":{"status":"none"}}`,
		},
		{
			name: "buzz open",
			msg:  BuzzOpenEvent(),
			want: `{"type":"buzz event","payload":{"status":"open"}}`,
		},
		{
			name: "buzz closed",
			msg:  BuzzClosedEvent("socket-a", "Anonymous"),
			want: `{"type":"buzz event","payload":{"status":"closed","socket":"socket-a","name":"Anonymous"}}`,
		},
		{
			name: "player update",
			msg:  PlayerUpdate("socket-a", "Ada"),
			want: `{"type":"player update","payload":{"name":"Ada","socket":"socket-a"}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := json.Marshal(tt.msg)
			if err != nil {
				t.Fatalf("failed to marshal: %v", err)
			}
			if string(raw) != tt.want {
				t.Errorf("got %s, want %s", raw, tt.want)
			}
		})
	}
}
