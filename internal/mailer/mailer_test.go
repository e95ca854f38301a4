package mailer

import (
	"testing"
	"time"

	"eventdesk/internal/model"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name string
		tpl  string
		vars Vars
		want string
	}{
		{
			name: "all placeholders",
			tpl:  "{{event_title}} at {{event_location}} on {{event_date}}, ticket {{ticket_number}} for {{participant_email}}",
			vars: Vars{"Run", "Old Town", "2025-11-02", "TICKET-1", "a@b.co"},
			want: "Run at Old Town on 2025-11-02, ticket TICKET-1 for a@b.co",
		},
		{
			name: "escapes values",
			tpl:  "<h1>{{event_title}}</h1>",
			vars: Vars{EventTitle: `<script>"x"</script>`},
			want: "<h1>&lt;script&gt;&#34;x&#34;&lt;/script&gt;</h1>",
		},
		{
			name: "unknown placeholder kept",
			tpl:  "Hi {{first_name}}, see you at {{event_title}}",
			vars: Vars{EventTitle: "Run"},
			want: "Hi {{first_name}}, see you at Run",
		},
		{
			name: "repeated placeholder",
			tpl:  "{{ticket_number}}/{{ticket_number}}",
			vars: Vars{TicketNumber: "T"},
			want: "T/T",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Render(tt.tpl, tt.vars); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestConfirmation(t *testing.T) {
	e := &model.Event{
		Title:            "City Run",
		Location:         "Old Town",
		PrimaryEventDate: model.NewDate(time.Date(2025, 11, 2, 0, 0, 0, 0, time.UTC)),
		ConfirmationEmail: model.NewJSON(model.EmailTemplate{
			From:     "org@example.com",
			Subject:  "You're in: {{event_title}}",
			HTMLBody: "<p>{{event_date}} - {{ticket_number}}</p>",
		}),
	}
	reg := &model.Registration{Email: "p@example.com", TicketNumber: "TICKET-42"}

	msg := Confirmation(e, reg)
	if msg.To != "p@example.com" || msg.ReplyTo != "org@example.com" {
		t.Fatalf("unexpected addresses %+v", msg)
	}
	if msg.Subject != "You're in: City Run" {
		t.Fatalf("unexpected subject %q", msg.Subject)
	}
	if msg.HTML != "<p>2025-11-02 - TICKET-42</p>" {
		t.Fatalf("unexpected body %q", msg.HTML)
	}
}
