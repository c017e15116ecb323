// SPDX-License-Identifier: MPL-2.0

package bundlefeed

import "testing"

func TestIsBundleTemplate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		tmpl Template
		want bool
	}{
		{
			name: "plain http trigger needs no bundle",
			tmpl: Template{ID: "HttpTrigger", IsHTTPTrigger: true},
			want: false,
		},
		{
			name: "plain timer trigger needs no bundle",
			tmpl: Template{ID: "TimerTrigger", IsTimerTrigger: true},
			want: false,
		},
		{
			name: "queue trigger needs a bundle",
			tmpl: Template{ID: "QueueTrigger"},
			want: true,
		},
		{
			name: "durable http starter needs a bundle despite being an http trigger",
			tmpl: Template{ID: "DurableHttpStart", IsHTTPTrigger: true},
			want: true,
		},
		{
			name: "signalr template needs a bundle despite being an http trigger",
			tmpl: Template{ID: "SignalRNegotiateHttpTrigger", IsHTTPTrigger: true},
			want: true,
		},
		{
			name: "substring match is case-insensitive",
			tmpl: Template{ID: "DURABLEFunctionsOrchestrator", IsTimerTrigger: true},
			want: true,
		},
		{
			name: "empty template needs a bundle",
			tmpl: Template{},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := IsBundleTemplate(tt.tmpl); got != tt.want {
				t.Errorf("IsBundleTemplate(%+v) = %v, want %v", tt.tmpl, got, tt.want)
			}
		})
	}
}
