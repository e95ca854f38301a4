package draft

import (
	"math"
	"unicode/utf8"

	"eventdesk/internal/schema"
	"eventdesk/pkg/validator"
)

const (
	MaxTitle               = 120
	MaxShortDescription    = 280
	MaxOverview            = 5000
	MaxLocation            = 200
	MaxGalleryImages       = 3
	MaxFaqItems            = 20
	MaxQuestion            = 200
	MaxAnswer              = 1000
	MaxTicketTypes         = 10
	MaxTicketName          = 100
	MaxTicketDescription   = 500
	MaxSpecialInstructions = 10
	MaxConfirmationMessage = 500
	MaxEmailSubject        = 100
	MaxHashtags            = 10
	MaxHashtag             = 50
	MaxQuantityPerOrder    = 1000
)

const PlainTextMessage = "Text must be plain text only (no emojis, HTML tags, or special characters)"

var orderFormTypes = map[string]bool{"string": true, "number": true, "boolean": true, "text": true}

type rule func(d *EventDraft, is *Issues)

var fieldRules = []rule{
	checkBasics,
	checkDates,
	checkImages,
	checkFaq,
	checkTickets,
	checkOrderForm,
	checkSpecialInstructions,
	checkConfirmation,
	checkHashtags,
	checkModules,
}

// Validate runs every field rule, then the date-range rules, and reports all
// violations together. The draft is not modified.
func Validate(d EventDraft) (Validated, error) {
	var is Issues
	for _, r := range fieldRules {
		r(&d, &is)
	}

	start, okStart := validator.ParseDate(d.StartDate)
	end, okEnd := validator.ParseDate(d.EndDate)
	primary, okPrimary := validator.ParseDate(d.PrimaryEventDate)
	if okStart && okEnd && okPrimary {
		if primary.Before(start) || primary.After(end) {
			is.add("primaryEventDate", "Primary event date must be within the start and end date range")
		}
		if start.After(end) {
			is.add("startDate", "Start date must be before or equal to end date")
		}
	}

	if len(is) > 0 {
		return Validated{}, is
	}
	return Validated{Draft: d, StartDate: start, EndDate: end, PrimaryDate: primary}, nil
}

func checkText(is *Issues, path, value string, max int, required, tooLong string) {
	if value == "" {
		is.add(path, required)
		return
	}
	if utf8.RuneCountInString(value) > max {
		is.add(path, tooLong)
	}
}

func checkBasics(d *EventDraft, is *Issues) {
	checkText(is, "title", d.Title, MaxTitle, "Event title is required", "Title must be less than 120 characters")
	checkText(is, "shortDescription", d.ShortDescription, MaxShortDescription, "Short description is required", "Short description must be less than 280 characters")
	checkText(is, "overview", d.Overview, MaxOverview, "Overview is required", "Overview must be less than 5000 characters")
	checkText(is, "location", d.Location, MaxLocation, "Location is required", "Location must be less than 200 characters")
	if d.Capacity != nil && *d.Capacity < 1 {
		is.add("capacity", "Capacity must be at least 1")
	}
}

func checkDates(d *EventDraft, is *Issues) {
	dates := []struct {
		path, value, label string
	}{
		{"startDate", d.StartDate, "Start date"},
		{"endDate", d.EndDate, "End date"},
		{"primaryEventDate", d.PrimaryEventDate, "Primary event date"},
	}
	for _, dt := range dates {
		if dt.value == "" {
			is.addf(dt.path, "%s is required", dt.label)
			continue
		}
		if !validator.IsDate(dt.value) {
			is.add(dt.path, "Invalid date format (YYYY-MM-DD)")
		}
	}
}

func checkImage(is *Issues, path string, img ImageRef) {
	if !validator.IsURL(img.URL) {
		is.add(path+".url", "Invalid image URL")
	}
	if !validator.IsImageMime(img.MimeType) {
		is.add(path+".mimeType", "Only JPEG and PNG images are allowed")
	}
}

func checkImages(d *EventDraft, is *Issues) {
	if d.Images.Main != nil {
		checkImage(is, "images.main", *d.Images.Main)
	}
	if len(d.Images.Gallery) > MaxGalleryImages {
		is.add("images.gallery", "Maximum 3 additional images allowed")
	}
	for i, img := range d.Images.Gallery {
		checkImage(is, index("images.gallery", i, ""), img)
	}
}

func checkFaq(d *EventDraft, is *Issues) {
	switch {
	case len(d.Faq) == 0:
		is.add("faq", "At least one FAQ item is required")
	case len(d.Faq) > MaxFaqItems:
		is.add("faq", "Maximum 20 FAQ items allowed")
	}
	for i, item := range d.Faq {
		checkText(is, index("faq", i, "question"), item.Question, MaxQuestion, "Question is required", "Question must be less than 200 characters")
		checkText(is, index("faq", i, "answer"), item.Answer, MaxAnswer, "Answer is required", "Answer must be less than 1000 characters")
	}
}

func checkTickets(d *EventDraft, is *Issues) {
	switch {
	case len(d.Tickets) == 0:
		is.add("tickets", "At least one ticket type is required")
	case len(d.Tickets) > MaxTicketTypes:
		is.add("tickets", "Maximum 10 ticket types allowed")
	}
	for i, tt := range d.Tickets {
		checkText(is, index("tickets", i, "name"), tt.Name, MaxTicketName, "Ticket name is required", "Ticket name must be less than 100 characters")
		if tt.Price < 0 || math.IsNaN(tt.Price) {
			is.add(index("tickets", i, "price"), "Price must be non-negative")
		}
		if tt.Fee != nil && (*tt.Fee < 0 || math.IsNaN(*tt.Fee)) {
			is.add(index("tickets", i, "fee"), "Fee must be non-negative")
		}
		switch q := tt.QuantityPerOrder; {
		case q != math.Trunc(q):
			is.add(index("tickets", i, "quantityPerOrder"), "Quantity per order must be a whole number")
		case q < 1:
			is.add(index("tickets", i, "quantityPerOrder"), "Quantity per order must be at least 1")
		case q > MaxQuantityPerOrder:
			is.add(index("tickets", i, "quantityPerOrder"), "Quantity per order must be at most 1000")
		}
		checkText(is, index("tickets", i, "description"), tt.Description, MaxTicketDescription, "Description is required", "Description must be less than 500 characters")
	}
}

func checkOrderForm(d *EventDraft, is *Issues) {
	if len(d.OrderForm) == 0 {
		is.add("orderForm", "At least one order form field is required")
	}
	for i, f := range d.OrderForm {
		if f.Key == "" {
			is.add(index("orderForm", i, "key"), "Field key is required")
		}
		if !orderFormTypes[f.Type] {
			is.add(index("orderForm", i, "type"), "Field type must be one of string, number, boolean, text")
		}
		if f.Label == "" {
			is.add(index("orderForm", i, "label"), "Field label is required")
		}
	}
}

func checkSpecialInstructions(d *EventDraft, is *Issues) {
	if len(d.SpecialInstructions) > MaxSpecialInstructions {
		is.add("specialInstructions", "Maximum 10 special instructions allowed")
	}
}

func checkConfirmation(d *EventDraft, is *Issues) {
	msg := d.ConfirmationPageMessage
	switch {
	case msg == "":
		is.add("confirmationPageMessage", "Confirmation page message is required")
	case utf8.RuneCountInString(msg) > MaxConfirmationMessage:
		is.add("confirmationPageMessage", "Message must be less than 500 characters")
	}
	if msg != "" && !validator.IsPlainText(msg) {
		is.add("confirmationPageMessage", PlainTextMessage)
	}

	email := d.ConfirmationEmail
	if !validator.IsEmail(email.From) {
		is.add("confirmationEmail.from", "Invalid email address")
	}
	checkText(is, "confirmationEmail.subject", email.Subject, MaxEmailSubject, "Subject is required", "Subject must be less than 100 characters")
	if email.HTMLBody == "" {
		is.add("confirmationEmail.htmlBody", "Email body is required")
	}
}

func checkHashtags(d *EventDraft, is *Issues) {
	if len(d.Hashtags) > MaxHashtags {
		is.add("hashtags", "Maximum 10 hashtags allowed")
	}
	for i, tag := range d.Hashtags {
		if utf8.RuneCountInString(tag) > MaxHashtag {
			is.add(index("hashtags", i, ""), "Hashtag must be less than 50 characters")
		}
	}
}

func checkModules(d *EventDraft, is *Issues) {
	seen := make(map[schema.ModuleType]bool)
	for i, m := range d.Modules {
		path := index("modules", i, "")
		if _, err := schema.ParseModuleType(string(m.Type)); err != nil {
			is.add(path+".module_type", "Module type must be one of tickets, transportation, hospitality, custom")
		} else if m.Type.IsPredefined() {
			if seen[m.Type] {
				is.addf(path+".module_type", "Only one %s module is allowed", m.Type)
			}
			seen[m.Type] = true
		}
		if m.Name == "" {
			is.add(path+".module_name", "Module name is required")
		}
		checkFields(is, path, m.Fields)
	}
}

func checkFields(is *Issues, modulePath string, fields []schema.Field) {
	keys := make(map[string]bool, len(fields))
	for j, f := range fields {
		path := index(modulePath+".fields", j, "")
		switch {
		case f.Key == "":
			is.add(path+".field_key", "Field key is required")
		case keys[f.Key]:
			is.addf(path+".field_key", "Field key %q is already used in this module", f.Key)
		}
		keys[f.Key] = true

		if f.Label == "" {
			is.add(path+".field_label", "Field label is required")
		}
		if f.Input == nil {
			is.add(path+".field_type", "Field type is required")
			continue
		}
		if f.Type() == schema.FieldSelect {
			opts := f.Options()
			if len(opts) == 0 {
				is.add(path+".field_options", "Select fields need at least one option")
			}
			for k, o := range opts {
				if o == "" {
					is.add(index(path+".field_options", k, ""), "Option cannot be empty")
				}
			}
		}
	}
}
