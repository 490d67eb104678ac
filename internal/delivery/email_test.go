package delivery

import (
	"testing"

	leadsvc "estate_crm/internal/api/lead/service"
)

// recordingSink ghi lại các sự kiện đã nhận để kiểm tra fan-out
type recordingSink struct {
	events []string
}

func (r *recordingSink) Publish(event string, payload interface{}) {
	r.events = append(r.events, event)
}

func TestMultiSinkFanOut(t *testing.T) {
	a := &recordingSink{}
	b := &recordingSink{}
	sink := NewMultiSink(a, b)

	sink.Publish(leadsvc.EventNewLead, "payload-1")
	sink.Publish(leadsvc.EventLeadClosed, "payload-2")

	for name, r := range map[string]*recordingSink{"a": a, "b": b} {
		if len(r.events) != 2 {
			t.Fatalf("Sink %s nhận %d sự kiện, muốn 2", name, len(r.events))
		}
		if r.events[0] != leadsvc.EventNewLead {
			t.Errorf("Sink %s events[0] = %q, muốn %q", name, r.events[0], leadsvc.EventNewLead)
		}
		if r.events[1] != leadsvc.EventLeadClosed {
			t.Errorf("Sink %s events[1] = %q, muốn %q", name, r.events[1], leadsvc.EventLeadClosed)
		}
	}
}

func TestMultiSinkSkipsNil(t *testing.T) {
	a := &recordingSink{}
	sink := NewMultiSink(a, nil)

	// Publish không được panic khi có sink nil bị loại lúc khởi tạo
	sink.Publish(leadsvc.EventNewLead, nil)

	if len(a.events) != 1 {
		t.Errorf("Sink a nhận %d sự kiện, muốn 1", len(a.events))
	}
}

func TestMultiSinkEmpty(t *testing.T) {
	sink := NewMultiSink()
	// Không có sink nào, Publish phải êm
	sink.Publish(leadsvc.EventLeadClosed, "x")
}
