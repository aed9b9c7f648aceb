package client

import (
	"context"
	"errors"
	"sync"
	"time"
)

// NoticeDuration is how long the success notice stays up before it clears
// itself.
const NoticeDuration = 5 * time.Second

// FormController is a headless contact form: it tracks values, field errors,
// the submitting flag, and a self-dismissing success notice. On a failed
// submission the values are kept so the user can correct and resend.
type FormController struct {
	mu         sync.Mutex
	client     *Client
	values     Form
	fieldErrs  map[string]string
	submitting bool
	notice     string
	noticeTTL  time.Duration
	timer      *time.Timer
}

// NewFormController builds a controller around an API client.
func NewFormController(c *Client) *FormController {
	return &FormController{
		client:    c,
		fieldErrs: make(map[string]string),
		noticeTTL: NoticeDuration,
	}
}

// SetField updates one field and clears any error previously shown for it.
// Unknown names are ignored.
func (f *FormController) SetField(name, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch name {
	case "name":
		f.values.Name = value
	case "email":
		f.values.Email = value
	case "subject":
		f.values.Subject = value
	case "message":
		f.values.Message = value
	default:
		return
	}
	delete(f.fieldErrs, name)
}

// Submit runs validation and, if clean, sends the form. Validation failures
// populate field errors without touching the network. Server and transport
// failures land under the "submit" key and leave the values intact; success
// clears the form and raises the notice.
func (f *FormController) Submit(ctx context.Context) error {
	f.mu.Lock()
	if f.submitting {
		f.mu.Unlock()
		return errors.New("submission already in progress")
	}
	form := f.values
	if errs := Validate(form); len(errs) > 0 {
		f.fieldErrs = errs
		f.mu.Unlock()
		return &ValidationError{Fields: errs}
	}
	f.submitting = true
	f.mu.Unlock()

	receipt, err := f.client.Submit(ctx, form)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitting = false
	if err != nil {
		f.fieldErrs["submit"] = err.Error()
		return err
	}

	f.values = Form{}
	f.fieldErrs = make(map[string]string)
	f.setNoticeLocked(receipt.Message)
	return nil
}

func (f *FormController) setNoticeLocked(msg string) {
	f.notice = msg
	if f.timer != nil {
		f.timer.Stop()
	}
	f.timer = time.AfterFunc(f.noticeTTL, func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.notice = ""
	})
}

// Values returns a copy of the current field values.
func (f *FormController) Values() Form {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values
}

// Errors returns a copy of the current field errors.
func (f *FormController) Errors() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]string, len(f.fieldErrs))
	for k, v := range f.fieldErrs {
		out[k] = v
	}
	return out
}

// IsSubmitting reports whether a submission is in flight.
func (f *FormController) IsSubmitting() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.submitting
}

// Notice returns the current success notice, or "" once it has dismissed.
func (f *FormController) Notice() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.notice
}

// Reset clears values, errors, and any pending notice.
func (f *FormController) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values = Form{}
	f.fieldErrs = make(map[string]string)
	f.notice = ""
	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}
}
