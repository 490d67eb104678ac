package realtime

import (
	"testing"
)

// drain đọc hết các message đang chờ trong buffer của client
func drain(c *Client) []Message {
	var msgs []Message
	for {
		select {
		case msg := <-c.Send:
			msgs = append(msgs, msg)
		default:
			return msgs
		}
	}
}

func TestHubRegisterUnregister(t *testing.T) {
	hub := NewHub()

	if hub.ClientCount() != 0 {
		t.Fatalf("ClientCount = %d, muốn 0", hub.ClientCount())
	}

	c1 := hub.Register()
	c2 := hub.Register()
	if hub.ClientCount() != 2 {
		t.Errorf("ClientCount = %d, muốn 2", hub.ClientCount())
	}
	if c1.ID == c2.ID {
		t.Errorf("Hai client có cùng ID %q", c1.ID)
	}

	hub.Unregister(c1)
	if hub.ClientCount() != 1 {
		t.Errorf("ClientCount sau Unregister = %d, muốn 1", hub.ClientCount())
	}

	// Unregister lần hai không được panic
	hub.Unregister(c1)
	if hub.ClientCount() != 1 {
		t.Errorf("ClientCount sau Unregister lần hai = %d, muốn 1", hub.ClientCount())
	}
}

func TestHubPublishFIFO(t *testing.T) {
	hub := NewHub()
	client := hub.Register()

	hub.Publish("new-lead", 1)
	hub.Publish("new-lead", 2)
	hub.Publish("lead-closed", 3)

	msgs := drain(client)
	if len(msgs) != 3 {
		t.Fatalf("Nhận %d message, muốn 3", len(msgs))
	}
	for i, want := range []int{1, 2, 3} {
		if msgs[i].Data != want {
			t.Errorf("msgs[%d].Data = %v, muốn %v", i, msgs[i].Data, want)
		}
	}
	if msgs[2].Event != "lead-closed" {
		t.Errorf("msgs[2].Event = %q, muốn %q", msgs[2].Event, "lead-closed")
	}
}

// Client chậm (buffer đầy) bị drop sự kiện, Publish không được block
func TestHubPublishDropsWhenBufferFull(t *testing.T) {
	hub := NewHub()
	client := hub.Register()

	for i := 0; i < sendBufferSize+5; i++ {
		hub.Publish("new-lead", i)
	}

	msgs := drain(client)
	if len(msgs) != sendBufferSize {
		t.Errorf("Nhận %d message, muốn %d (phần dư bị drop)", len(msgs), sendBufferSize)
	}
	// Các message còn lại phải là những message ĐẦU tiên (drop cái mới, giữ cái cũ)
	if len(msgs) > 0 && msgs[0].Data != 0 {
		t.Errorf("msgs[0].Data = %v, muốn 0", msgs[0].Data)
	}
}

// Không có replay: client đăng ký sau khi sự kiện đã phát thì không nhận được gì
func TestHubNoReplayForLateClient(t *testing.T) {
	hub := NewHub()
	hub.Publish("new-lead", "missed")

	client := hub.Register()
	if msgs := drain(client); len(msgs) != 0 {
		t.Errorf("Client mới nhận %d message, muốn 0", len(msgs))
	}
}

func TestHubPublishWithNoClients(t *testing.T) {
	hub := NewHub()
	// Không client nào kết nối, Publish phải êm, không panic
	hub.Publish("lead-closed", map[string]interface{}{"id": "abc"})
}

func TestHubUnregisterClosesSendChannel(t *testing.T) {
	hub := NewHub()
	client := hub.Register()
	hub.Unregister(client)

	if _, ok := <-client.Send; ok {
		t.Error("Channel Send vẫn mở sau Unregister")
	}
}
