package gmail

import (
	"context"
	"encoding/base64"
	"fmt"
	"html"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	emaildomain "github.com/itsprade/good-morning/internal/email/domain"
	"github.com/itsprade/good-morning/pkg/googleauth"
	"github.com/itsprade/good-morning/pkg/logger"
)

const (
	defaultSubject = "No Subject"
	defaultSender  = "Unknown"

	detailConcurrency = 10
)

type Service struct {
	auth   *googleauth.Client
	logger *zap.Logger
}

func NewService(auth *googleauth.Client) *Service {
	return &Service{auth: auth, logger: logger.Named("gmail")}
}

// GetGmailService creates a Gmail client for one user's credentials
func (s *Service) GetGmailService(ctx context.Context, creds googleauth.Credentials) (*gmail.Service, error) {
	srv, err := gmail.NewService(ctx, option.WithHTTPClient(s.auth.HTTPClient(ctx, creds)))
	if err != nil {
		return nil, fmt.Errorf("unable to create Gmail service: %w", err)
	}
	return srv, nil
}

// FetchRecentMessages lists inbox messages received after q.Since, at most
// q.MaxMessages, in the order Gmail returns them. A message whose details
// cannot be read is skipped.
func (s *Service) FetchRecentMessages(ctx context.Context, creds googleauth.Credentials, q emaildomain.FetchQuery) ([]emaildomain.Message, error) {
	srv, err := s.GetGmailService(ctx, creds)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf("in:inbox after:%d", q.Since.Unix())
	list, err := srv.Users.Messages.List("me").Q(query).MaxResults(int64(q.MaxMessages)).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("unable to list messages: %w", err)
	}
	if len(list.Messages) == 0 {
		return nil, nil
	}

	slots := make([]*emaildomain.Message, len(list.Messages))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(detailConcurrency)
	for i, ref := range list.Messages {
		g.Go(func() error {
			msg, err := srv.Users.Messages.Get("me", ref.Id).Format("full").Context(gctx).Do()
			if err != nil {
				s.logger.Warn("skipping message", zap.String("message_id", ref.Id), zap.Error(err))
				return nil
			}
			m := toMessage(msg, q.BodyLimit)
			slots[i] = &m
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	messages := make([]emaildomain.Message, 0, len(slots))
	for _, m := range slots {
		if m != nil {
			messages = append(messages, *m)
		}
	}
	return messages, nil
}

// Watch starts push notifications for the inbox on the given Pub/Sub topic
func (s *Service) Watch(ctx context.Context, creds googleauth.Credentials, topicName string) (uint64, error) {
	srv, err := s.GetGmailService(ctx, creds)
	if err != nil {
		return 0, err
	}

	// Only one watch per user is allowed, so clear any previous one first.
	_ = srv.Users.Stop("me").Context(ctx).Do()

	resp, err := srv.Users.Watch("me", &gmail.WatchRequest{
		TopicName: topicName,
		LabelIds:  []string{"INBOX"},
	}).Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("unable to watch mailbox: %w", err)
	}
	s.logger.Info("watch started",
		zap.Int64("expiration", resp.Expiration),
		zap.Uint64("history_id", resp.HistoryId),
	)
	return resp.HistoryId, nil
}

// Stop stops push notifications for the user's mailbox
func (s *Service) Stop(ctx context.Context, creds googleauth.Credentials) error {
	srv, err := s.GetGmailService(ctx, creds)
	if err != nil {
		return err
	}
	if err := srv.Users.Stop("me").Context(ctx).Do(); err != nil {
		return fmt.Errorf("unable to stop mailbox watch: %w", err)
	}
	return nil
}

// ValidateToken makes a cheap API call with the credentials
func (s *Service) ValidateToken(ctx context.Context, creds googleauth.Credentials) (string, error) {
	srv, err := s.GetGmailService(ctx, creds)
	if err != nil {
		return "", err
	}
	profile, err := srv.Users.GetProfile("me").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("invalid or expired access token: %w", err)
	}
	return profile.EmailAddress, nil
}

func toMessage(msg *gmail.Message, bodyLimit int) emaildomain.Message {
	var headers []*gmail.MessagePartHeader
	if msg.Payload != nil {
		headers = msg.Payload.Headers
	}

	subject := getHeader(headers, "Subject")
	if subject == "" {
		subject = defaultSubject
	}
	sender := getHeader(headers, "From")
	if sender == "" {
		sender = defaultSender
	}

	body := extractBody(msg.Payload)
	if body == "" {
		body = html.UnescapeString(msg.Snippet)
	}

	return emaildomain.Message{
		ID:          msg.Id,
		Subject:     subject,
		Sender:      sender,
		ReceivedAt:  receivedAt(msg, headers),
		BodyExcerpt: truncate(collapseWhitespace(body), bodyLimit),
	}
}

func receivedAt(msg *gmail.Message, headers []*gmail.MessagePartHeader) time.Time {
	if msg.InternalDate > 0 {
		return time.UnixMilli(msg.InternalDate)
	}
	if d := getHeader(headers, "Date"); d != "" {
		for _, layout := range []string{time.RFC1123Z, time.RFC1123, "Mon, 2 Jan 2006 15:04:05 -0700"} {
			if t, err := time.Parse(layout, d); err == nil {
				return t
			}
		}
	}
	return time.Now()
}

func getHeader(headers []*gmail.MessagePartHeader, name string) string {
	for _, h := range headers {
		if strings.EqualFold(h.Name, name) {
			return h.Value
		}
	}
	return ""
}

// extractBody prefers the first text/plain part, then HTML with the markup
// stripped.
func extractBody(payload *gmail.MessagePart) string {
	if payload == nil {
		return ""
	}

	var plain, htmlBody string
	var walk func(p *gmail.MessagePart)
	walk = func(p *gmail.MessagePart) {
		if plain != "" {
			return
		}
		if p.Body != nil && p.Body.Data != "" {
			switch p.MimeType {
			case "text/plain":
				plain = decode(p.Body.Data)
			case "text/html":
				if htmlBody == "" {
					htmlBody = decode(p.Body.Data)
				}
			}
		}
		for _, child := range p.Parts {
			walk(child)
		}
	}
	walk(payload)

	if plain != "" {
		return plain
	}
	if htmlBody != "" {
		return stripHTML(htmlBody)
	}
	return ""
}

func decode(data string) string {
	b, err := base64.URLEncoding.DecodeString(data)
	if err != nil {
		b, err = base64.RawURLEncoding.DecodeString(data)
		if err != nil {
			return ""
		}
	}
	return string(b)
}

var (
	scriptStyleRe = regexp.MustCompile(`(?is)<(script|style)[^>]*>.*?</(script|style)>`)
	tagRe         = regexp.MustCompile(`(?s)<[^>]*>`)
	spaceRe       = regexp.MustCompile(`\s+`)
)

func stripHTML(s string) string {
	s = scriptStyleRe.ReplaceAllString(s, " ")
	s = tagRe.ReplaceAllString(s, " ")
	return html.UnescapeString(s)
}

func collapseWhitespace(s string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}

// truncate cuts s to at most limit runes.
func truncate(s string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit])
}
