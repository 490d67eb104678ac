// Package delivery - kênh gửi email thông báo, hiện chỉ dùng cho sự kiện
// chốt deal (lead chuyển sang Closed).
package delivery

import (
	"context"
	"fmt"

	authmodels "estate_crm/internal/api/auth/models"
	basesvc "estate_crm/internal/api/base/service"
	leadmodels "estate_crm/internal/api/lead/models"
	leadsvc "estate_crm/internal/api/lead/service"
	"estate_crm/internal/global"
	"estate_crm/internal/logger"
	"estate_crm/internal/utility"

	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
)

// EmailChannel lắng nghe sự kiện lead và gửi email chúc mừng chốt deal
// cho agent được gán. Implement leadsvc.EventSink nên được wire chung với
// hub websocket qua MultiSink.
type EmailChannel struct {
	userService *basesvc.BaseServiceMongoImpl[authmodels.User]
	enabled     bool
}

// NewEmailChannel tạo kênh email. SMTP_HOST rỗng = kênh bị tắt, mọi sự kiện
// được bỏ qua êm.
func NewEmailChannel() (*EmailChannel, error) {
	userCollection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Users)
	if !exist {
		return nil, fmt.Errorf("failed to get users collection for email channel")
	}
	return &EmailChannel{
		userService: basesvc.NewBaseServiceMongo[authmodels.User](userCollection),
		enabled:     global.ServerConfig != nil && global.ServerConfig.SMTPHost != "",
	}, nil
}

// Publish nhận sự kiện lead. Chỉ lead-closed được xử lý, các sự kiện khác
// bỏ qua. Gửi email chạy trong goroutine riêng, lỗi chỉ được log - không
// bao giờ lan ngược vào luồng nghiệp vụ.
func (ch *EmailChannel) Publish(event string, payload interface{}) {
	if !ch.enabled || event != leadsvc.EventLeadClosed {
		return
	}
	// Payload trên sink là interface{}, convert về model qua JSON để không
	// phụ thuộc kiểu cụ thể (Lead hay *Lead) mà service phát ra
	var lead leadmodels.Lead
	if _, err := utility.ConvertStruct(payload, &lead); err != nil {
		logger.GetErrorLogger().WithError(err).Warn("📧 [EMAIL] Payload sự kiện không phải lead, bỏ qua")
		return
	}
	if lead.AssignedAgent == nil {
		// Không có agent được gán thì không có ai để chúc mừng
		return
	}

	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.GetErrorLogger().WithFields(logrus.Fields{"panic": r}).Error("📧 [EMAIL] Panic khi gửi email chốt deal")
			}
		}()
		if err := ch.sendClosedDealEmail(context.Background(), lead); err != nil {
			logger.GetErrorLogger().WithFields(logrus.Fields{
				"lead_id": lead.ID.Hex(),
				"error":   err.Error(),
			}).Error("📧 [EMAIL] Lỗi gửi email chốt deal")
		}
	}()
}

// sendClosedDealEmail resolve agent và gửi email qua SMTP
func (ch *EmailChannel) sendClosedDealEmail(ctx context.Context, lead leadmodels.Lead) error {
	agent, err := ch.userService.FindOneById(ctx, *lead.AssignedAgent)
	if err != nil {
		return fmt.Errorf("resolve agent: %w", err)
	}
	if agent.Email == "" {
		return fmt.Errorf("agent %s không có email", agent.ID.Hex())
	}

	cfg := global.ServerConfig
	htmlContent := fmt.Sprintf(
		`<h2>Chúc mừng chốt deal!</h2>
<p>Lead <strong>%s</strong> vừa được chuyển sang trạng thái Closed.</p>
<ul>
<li>Email: %s</li>
<li>Điện thoại: %s</li>
<li>Ngân sách: %.0f</li>
</ul>`,
		lead.Name, lead.Email, lead.Phone, lead.Budget)

	msg := gomail.NewMessage()
	msg.SetHeader("From", fmt.Sprintf("%s <%s>", cfg.SMTPFromName, cfg.SMTPFrom))
	msg.SetHeader("To", agent.Email)
	msg.SetHeader("Subject", fmt.Sprintf("Deal chốt thành công: %s", lead.Name))
	msg.SetBody("text/html", htmlContent)

	dialer := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword)
	if err := dialer.DialAndSend(msg); err != nil {
		return err
	}

	logger.GetAppLogger().WithFields(logrus.Fields{
		"lead_id":     lead.ID.Hex(),
		"agent_email": agent.Email,
	}).Info("📧 [EMAIL] Đã gửi email chốt deal")
	return nil
}

// MultiSink phát một sự kiện tới nhiều sink (hub websocket + kênh email)
type MultiSink struct {
	sinks []leadsvc.EventSink
}

// NewMultiSink tạo MultiSink từ danh sách sink, sink nil bị bỏ qua
func NewMultiSink(sinks ...leadsvc.EventSink) *MultiSink {
	valid := make([]leadsvc.EventSink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			valid = append(valid, s)
		}
	}
	return &MultiSink{sinks: valid}
}

// Publish chuyển tiếp sự kiện tới tất cả sink
func (m *MultiSink) Publish(event string, payload interface{}) {
	for _, s := range m.sinks {
		s.Publish(event, payload)
	}
}
