package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	"github.com/trafficshawarma/storefront/internal/models"
	pkglogger "github.com/trafficshawarma/storefront/pkg/logger"
)

// EmailService defines the interface for sending order emails.
type EmailService interface {
	SendOrderConfirmation(ctx context.Context, to, orderID string, items []models.OrderItem, amount float64) error
}

// AWSSESEmailService sends emails using AWS SES.
type AWSSESEmailService struct {
	sesClient   *ses.Client
	fromAddress string
	logger      *slog.Logger
}

// NewAWSSESEmailService creates a new AWS SES email service.
func NewAWSSESEmailService(region, fromAddress string, logger *slog.Logger) (*AWSSESEmailService, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &AWSSESEmailService{
		sesClient:   ses.NewFromConfig(cfg),
		fromAddress: fromAddress,
		logger:      logger,
	}, nil
}

// SendOrderConfirmation emails the customer a payment receipt with the
// order line items.
func (s *AWSSESEmailService) SendOrderConfirmation(ctx context.Context, to, orderID string, items []models.OrderItem, amount float64) error {
	subject := fmt.Sprintf("Order Confirmation - %s", orderID)
	htmlBody := buildOrderConfirmationHTML(orderID, items, amount)
	textBody := buildOrderConfirmationText(orderID, items, amount)

	input := &ses.SendEmailInput{
		Source: aws.String(s.fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data:    aws.String(subject),
				Charset: aws.String("UTF-8"),
			},
			Body: &types.Body{
				Html: &types.Content{
					Data:    aws.String(htmlBody),
					Charset: aws.String("UTF-8"),
				},
				Text: &types.Content{
					Data:    aws.String(textBody),
					Charset: aws.String("UTF-8"),
				},
			},
		},
	}

	sendCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if _, err := s.sesClient.SendEmail(sendCtx, input); err != nil {
		return fmt.Errorf("failed to send order confirmation: %w", err)
	}

	s.logger.Info("order confirmation email sent",
		slog.String("order_id", orderID),
		slog.String("to", pkglogger.SanitizedEmail(to)))
	return nil
}

func buildOrderConfirmationHTML(orderID string, items []models.OrderItem, amount float64) string {
	var rows strings.Builder
	for _, item := range items {
		rows.WriteString(fmt.Sprintf(`
        <tr>
            <td style="padding: 12px; border-bottom: 1px solid #27272a;">%s</td>
            <td style="padding: 12px; border-bottom: 1px solid #27272a; text-align: center;">%d</td>
            <td style="padding: 12px; border-bottom: 1px solid #27272a; text-align: right;">GH&#8373; %.2f</td>
        </tr>`, item.Name, item.Quantity, item.Price*float64(item.Quantity)))
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <title>Order Confirmation - Traffic Shawarma</title>
</head>
<body style="margin: 0; padding: 0; font-family: Arial, sans-serif; background-color: #000000;">
    <div style="max-width: 600px; margin: 0 auto; background-color: #18181b; padding: 40px 20px;">
        <div style="text-align: center; margin-bottom: 30px;">
            <h1 style="color: #ffffff; font-size: 32px; margin: 0;">TRAFFIC <span style="color: #f97316;">SHAWARMA</span></h1>
            <p style="color: #a1a1aa; font-size: 16px; margin-top: 10px;">Hot &amp; Loaded Shawarma, Ghana Style</p>
        </div>
        <div style="background-color: #27272a; border-radius: 12px; padding: 30px; margin-bottom: 20px;">
            <h2 style="color: #ffffff; font-size: 24px; margin: 0; text-align: center;">Payment Successful!</h2>
            <p style="color: #a1a1aa; margin-top: 10px; text-align: center;">Your order is being prepared</p>
            <div style="border-top: 1px solid #3f3f46; padding-top: 20px; margin-top: 20px;">
                <p style="color: #a1a1aa; font-size: 14px; margin: 0;">Order Reference:</p>
                <p style="color: #ffffff; font-size: 18px; font-weight: bold; margin: 5px 0 0 0;">%s</p>
            </div>
        </div>
        <div style="background-color: #27272a; border-radius: 12px; padding: 30px; margin-bottom: 20px;">
            <h3 style="color: #ffffff; font-size: 20px; margin: 0 0 20px 0;">Order Details</h3>
            <table style="width: 100%%; border-collapse: collapse;">
                <tbody>%s</tbody>
                <tfoot>
                    <tr>
                        <td colspan="2" style="padding: 20px 12px 12px; text-align: right; color: #ffffff; font-size: 18px; font-weight: bold;">Total:</td>
                        <td style="padding: 20px 12px 12px; text-align: right; color: #f97316; font-size: 18px; font-weight: bold;">GH&#8373; %.2f</td>
                    </tr>
                </tfoot>
            </table>
        </div>
        <div style="text-align: center; margin-top: 30px; padding-top: 20px; border-top: 1px solid #27272a;">
            <p style="color: #71717a; font-size: 14px; margin: 5px 0;">Madina Junction, Near Total Filling Station, Accra</p>
            <p style="color: #71717a; font-size: 14px; margin: 5px 0;">You can track your order status via WhatsApp</p>
        </div>
    </div>
</body>
</html>`, orderID, rows.String(), amount)
}

func buildOrderConfirmationText(orderID string, items []models.OrderItem, amount float64) string {
	var b strings.Builder
	b.WriteString("Payment Successful!\n\n")
	b.WriteString(fmt.Sprintf("Order Reference: %s\n\n", orderID))
	for _, item := range items {
		b.WriteString(fmt.Sprintf("  %s x%d - GHS %.2f\n", item.Name, item.Quantity, item.Price*float64(item.Quantity)))
	}
	b.WriteString(fmt.Sprintf("\nTotal: GHS %.2f\n", amount))
	b.WriteString("\nYour order is being prepared. You can track it via WhatsApp.\n")
	return b.String()
}

// NoopEmailService is used when email delivery is not configured. It
// logs a warning and drops the message.
type NoopEmailService struct {
	logger *slog.Logger
}

// NewNoopEmailService creates a NoopEmailService.
func NewNoopEmailService(logger *slog.Logger) *NoopEmailService {
	return &NoopEmailService{logger: logger}
}

func (s *NoopEmailService) SendOrderConfirmation(ctx context.Context, to, orderID string, items []models.OrderItem, amount float64) error {
	s.logger.Warn("email service not configured, confirmation not sent",
		slog.String("order_id", orderID))
	return nil
}
