package dto

// InstagramWebhook Meta 消息推送
type InstagramWebhook struct {
	Object string                  `json:"object"`
	Entry  []InstagramWebhookEntry `json:"entry"`
}

type InstagramWebhookEntry struct {
	ID        string                  `json:"id"`
	Time      int64                   `json:"time"`
	Messaging []InstagramMessageEvent `json:"messaging"`
}

type InstagramMessageEvent struct {
	Sender    WebhookParticipant `json:"sender"`
	Recipient WebhookParticipant `json:"recipient"`
	Timestamp int64              `json:"timestamp"`
	Message   *InstagramMessage  `json:"message,omitempty"`
}

type WebhookParticipant struct {
	ID string `json:"id"`
}

type InstagramMessage struct {
	Mid    string `json:"mid"`
	Text   string `json:"text"`
	IsEcho bool   `json:"is_echo"`
}

// SimulationPayload 本地联调使用的简化格式
type SimulationPayload struct {
	OTP             string `json:"otp"`
	InstagramID     string `json:"instagramId"`
	InstagramHandle string `json:"instagramHandle"`
}
