package draft

import (
	"errors"
	"math"
	"strings"
	"testing"

	"eventdesk/internal/schema"
)

func validDraft() EventDraft {
	fee := 2.5
	return EventDraft{
		Title:            "City Marathon",
		ShortDescription: "Annual run through the old town",
		Overview:         "Three days of races, expo and recovery sessions.",
		Location:         "Old Town Square",
		StartDate:        "2025-11-01",
		EndDate:          "2025-11-03",
		PrimaryEventDate: "2025-11-02",
		Images: Images{
			Main:    &ImageRef{URL: "https://cdn.example.com/main.jpg", MimeType: "image/jpeg"},
			Gallery: []ImageRef{{URL: "https://cdn.example.com/1.png", MimeType: "image/png"}},
		},
		Faq: []FaqItem{{Question: "When does it start?", Answer: "At 9:00 AM"}},
		Tickets: []TicketType{{
			Name:             "Early Bird",
			Description:      "Discounted entry",
			Price:            49,
			Fee:              &fee,
			QuantityPerOrder: 2,
			Active:           true,
		}},
		OrderForm:               []OrderFormField{{Key: "full_name", Type: "string", Required: true, Label: "Full name"}},
		ConfirmationPageMessage: "Thank you for registering!",
		ConfirmationEmail: ConfirmationEmail{
			From:     "tickets@example.com",
			Subject:  "Registration Confirmed",
			HTMLBody: "<p>See you at {{event_title}}</p>",
		},
		Hashtags: []string{"run", "marathon"},
		Modules: []schema.Module{{
			Type:   schema.ModuleTransportation,
			Name:   "Transportation",
			Active: true,
			Fields: schema.DefaultFields(schema.ModuleTransportation),
		}},
	}
}

func issuesOf(t *testing.T, err error) Issues {
	t.Helper()
	var is Issues
	if !errors.As(err, &is) {
		t.Fatalf("expected Issues, got %T: %v", err, err)
	}
	return is
}

func TestValidateAcceptsValidDraft(t *testing.T) {
	v, err := Validate(validDraft())
	if err != nil {
		t.Fatalf("expected valid draft, got %v", err)
	}
	if v.PrimaryDate.Format("2006-01-02") != "2025-11-02" {
		t.Fatalf("expected parsed primary date, got %v", v.PrimaryDate)
	}
}

func TestValidateSelectWithoutOptions(t *testing.T) {
	d := validDraft()
	d.Modules = []schema.Module{{
		Type:   schema.ModuleCustom,
		Name:   "Meals",
		Fields: []schema.Field{{Key: "meal", Label: "Meal", Input: schema.Choice()}},
	}}

	_, err := Validate(d)
	is := issuesOf(t, err)
	if got := is.At("modules[0].fields[0].field_options"); len(got) != 1 {
		t.Fatalf("expected option issue, got %v", is)
	}
}

func TestValidateDateRange(t *testing.T) {
	tests := []struct {
		name             string
		start, end, prim string
		path             string
	}{
		{"start after end", "2025-11-05", "2025-11-03", "2025-11-04", "startDate"},
		{"primary before start", "2025-11-01", "2025-11-03", "2025-10-31", "primaryEventDate"},
		{"primary after end", "2025-11-01", "2025-11-03", "2025-11-04", "primaryEventDate"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDraft()
			d.StartDate, d.EndDate, d.PrimaryEventDate = tt.start, tt.end, tt.prim
			_, err := Validate(d)
			is := issuesOf(t, err)
			if len(is.At(tt.path)) == 0 {
				t.Fatalf("expected issue at %s, got %v", tt.path, is)
			}
		})
	}
}

func TestValidateDateBoundsInclusive(t *testing.T) {
	d := validDraft()
	d.StartDate, d.EndDate, d.PrimaryEventDate = "2025-11-01", "2025-11-01", "2025-11-01"
	if _, err := Validate(d); err != nil {
		t.Fatalf("expected single-day event to be valid, got %v", err)
	}
}

func TestValidateSkipsRangeWhenDateMalformed(t *testing.T) {
	d := validDraft()
	d.StartDate = "01/11/2025"
	_, err := Validate(d)
	is := issuesOf(t, err)
	if len(is) != 1 || is[0].Path != "startDate" || is[0].Message != "Invalid date format (YYYY-MM-DD)" {
		t.Fatalf("expected only the format issue, got %v", is)
	}
}

func TestValidatePlainTextMessage(t *testing.T) {
	for _, msg := range []string{"Hello 😀", "Hello <b>bold</b>", "Hello café"} {
		d := validDraft()
		d.ConfirmationPageMessage = msg
		_, err := Validate(d)
		is := issuesOf(t, err)
		got := is.At("confirmationPageMessage")
		if len(got) != 1 || got[0] != PlainTextMessage {
			t.Fatalf("%q: expected plain text issue, got %v", msg, got)
		}
	}

	d := validDraft()
	d.ConfirmationPageMessage = "Hello World"
	if _, err := Validate(d); err != nil {
		t.Fatalf("expected plain message to pass, got %v", err)
	}
}

func TestValidateFaqAndTicketBounds(t *testing.T) {
	d := validDraft()
	d.Faq = nil
	d.Tickets = []TicketType{}
	_, err := Validate(d)
	is := issuesOf(t, err)
	if got := is.At("faq"); len(got) != 1 || got[0] != "At least one FAQ item is required" {
		t.Fatalf("unexpected faq issues %v", got)
	}
	if got := is.At("tickets"); len(got) != 1 || got[0] != "At least one ticket type is required" {
		t.Fatalf("unexpected ticket issues %v", got)
	}

	d = validDraft()
	for len(d.Tickets) < 11 {
		d.Tickets = append(d.Tickets, d.Tickets[0])
	}
	_, err = Validate(d)
	is = issuesOf(t, err)
	if got := is.At("tickets"); len(got) != 1 || got[0] != "Maximum 10 ticket types allowed" {
		t.Fatalf("unexpected ticket issues %v", got)
	}
}

func TestValidateQuantityPerOrder(t *testing.T) {
	tests := []struct {
		qty  float64
		want string
	}{
		{1, ""},
		{MaxQuantityPerOrder, ""},
		{0, "Quantity per order must be at least 1"},
		{2.5, "Quantity per order must be a whole number"},
		{MaxQuantityPerOrder + 1, "Quantity per order must be at most 1000"},
		{1e19, "Quantity per order must be at most 1000"},
		{math.Inf(1), "Quantity per order must be at most 1000"},
	}
	for _, tt := range tests {
		d := validDraft()
		d.Tickets[0].QuantityPerOrder = tt.qty
		_, err := Validate(d)
		if tt.want == "" {
			if err != nil {
				t.Fatalf("qty %v: expected no error, got %v", tt.qty, err)
			}
			continue
		}
		got := issuesOf(t, err).At("tickets[0].quantityPerOrder")
		if len(got) != 1 || got[0] != tt.want {
			t.Fatalf("qty %v: expected %q, got %v", tt.qty, tt.want, got)
		}
	}
}

func TestValidateCollectsAllIssues(t *testing.T) {
	d := validDraft()
	d.Title = ""
	d.Location = strings.Repeat("x", 201)
	d.Tickets[0].Price = -1
	d.Tickets[0].QuantityPerOrder = 1.5
	d.ConfirmationEmail.From = "nobody"
	d.Hashtags = append(d.Hashtags, strings.Repeat("h", 51))

	_, err := Validate(d)
	is := issuesOf(t, err)
	for _, path := range []string{
		"title",
		"location",
		"tickets[0].price",
		"tickets[0].quantityPerOrder",
		"confirmationEmail.from",
		"hashtags[2]",
	} {
		if len(is.At(path)) == 0 {
			t.Fatalf("expected issue at %s, got %v", path, is)
		}
	}
}

func TestValidateModuleRules(t *testing.T) {
	d := validDraft()
	d.Modules = append(d.Modules, schema.Module{
		Type: schema.ModuleTransportation,
		Name: "",
		Fields: []schema.Field{
			{Key: "seat", Label: "Seat", Input: schema.Scalar(schema.FieldString)},
			{Key: "seat", Label: "", Input: schema.Scalar(schema.FieldNumber)},
			{Key: "firstName", Label: "First name", Input: schema.Scalar(schema.FieldText)},
		},
	})

	_, err := Validate(d)
	is := issuesOf(t, err)
	for _, path := range []string{
		"modules[1].module_type",
		"modules[1].module_name",
		"modules[1].fields[1].field_key",
		"modules[1].fields[1].field_label",
	} {
		if len(is.At(path)) == 0 {
			t.Fatalf("expected issue at %s, got %v", path, is)
		}
	}
	if got := is.At("modules[1].fields[2].field_key"); len(got) != 0 {
		t.Fatalf("expected any unique non-empty key to pass, got %v", got)
	}
}

func TestValidateImages(t *testing.T) {
	d := validDraft()
	img := ImageRef{URL: "https://cdn.example.com/x.gif", MimeType: "image/gif"}
	d.Images.Gallery = []ImageRef{img, img, img, img}

	_, err := Validate(d)
	is := issuesOf(t, err)
	if len(is.At("images.gallery")) != 1 {
		t.Fatalf("expected gallery bound issue, got %v", is)
	}
	if len(is.At("images.gallery[3].mimeType")) != 1 {
		t.Fatalf("expected mime issue, got %v", is)
	}
}

func TestValidateDoesNotMutateInput(t *testing.T) {
	d := validDraft()
	d.Title = ""
	before := d.Modules[0].Fields[0].Options()
	_, _ = Validate(d)
	if d.Title != "" || len(d.Modules[0].Fields[0].Options()) != len(before) {
		t.Fatal("expected draft to be left as is")
	}
}
