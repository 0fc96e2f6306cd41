package scenes

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"

	"github.com/lucifer-ux/4bitsLanding/pkg/input"
	"github.com/lucifer-ux/4bitsLanding/pkg/leads"
)

// 线索表单状态文案
const (
	MessageLeadInvalid     = "Please enter a valid email address."
	MessageLeadNew         = "Welcome aboard. You're on the waitlist."
	MessageLeadExisting    = "You're already on the waitlist."
	MessageLeadQueued      = "We couldn't reach the server. We'll send your email once you're back online."
	MessageLeadUnavailable = "The waitlist is not available right now."
)

// LeadForm 候补名单表单
// 提交失败（网络不可达）时把邮箱写入待发送队列，稍后重试
type LeadForm struct {
	frame

	tasks     *taskQueue
	submitter leads.Submitter
	outbox    *leads.Outbox

	email  TextField
	submit Button
	fields form
	busy   bool
}

// NewLeadForm 创建候补名单表单
func NewLeadForm(tasks *taskQueue, submitter leads.Submitter, outbox *leads.Outbox) *LeadForm {
	f := &LeadForm{
		frame:     frame{Title: "Join the Waitlist", Subtitle: "Be the first to own your storage."},
		tasks:     tasks,
		submitter: submitter,
		outbox:    outbox,
		email:     TextField{Label: "IDENTITY (EMAIL)", Placeholder: "name@domain.com", MaxLen: 254},
		submit:    Button{Label: "SECURE ACCESS", Primary: true},
	}
	f.fields.fields = []*TextField{&f.email}
	f.email.Focus(true)
	return f
}

// Layout 实现 modal
func (f *LeadForm) Layout(w, h float64) {
	f.layout(w, h, 420, 340)
	x, y := f.Panel.X+32, f.Panel.Y+140
	f.email.Bounds = Rect{X: x, Y: y, W: f.Panel.W - 64, H: 44}
	f.submit.Bounds = Rect{X: x, Y: y + 68, W: f.Panel.W - 64, H: 44}
}

// Update 实现 modal
func (f *LeadForm) Update(dt float64, p Pointer, k input.Keys) {
	f.fields.update(dt)
	if f.update(p, k) {
		return
	}
	enter := f.fields.handle(p, k)
	if f.submit.Update(p) || enter {
		f.send()
	}
}

func (f *LeadForm) send() {
	if f.busy {
		return
	}
	email := strings.TrimSpace(f.email.Value)
	if !leads.ValidEmail(email) {
		f.setStatus(MessageLeadInvalid, true)
		return
	}
	if f.submitter == nil {
		f.setStatus(MessageLeadUnavailable, true)
		return
	}

	f.busy = true
	f.submit.Disabled = true
	f.setStatus("", false)
	submitter := f.submitter
	f.tasks.Go(func(ctx context.Context) func() {
		res, err := submitter.Submit(ctx, email)
		return func() { f.finish(email, res, err) }
	})
}

func (f *LeadForm) finish(email string, res leads.SubmitResult, err error) {
	f.busy = false
	f.submit.Disabled = false
	switch {
	case errors.Is(err, leads.ErrInvalidEmail):
		f.setStatus(MessageLeadInvalid, true)
	case err != nil:
		log.Printf("[LeadForm] submit failed: %v", err)
		if f.outbox != nil {
			if qerr := f.outbox.Add(email); qerr != nil {
				log.Printf("[LeadForm] Warning: failed to queue lead: %v", qerr)
			}
		}
		f.setStatus(MessageLeadQueued, true)
	case res == leads.ResultExisting:
		f.setStatus(MessageLeadExisting, false)
	default:
		f.setStatus(MessageLeadNew, false)
		f.email.Value = ""
	}
}

// Draw 实现 modal
func (f *LeadForm) Draw(dst *ebiten.Image, th *theme) {
	f.draw(dst, th)
	f.fields.draw(dst, th)
	f.submit.Draw(dst, th)
	cx := f.Panel.X + f.Panel.W/2
	th.text(dst, "ENCRYPTED & PRIVATE", th.fonts.Small, cx, f.submit.Bounds.Y+f.submit.Bounds.H+22, text.AlignCenter, th.palette.TextSecondary)
}
