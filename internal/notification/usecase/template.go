package usecase

import (
	"context"
	"log/slog"

	"github.com/in4SECxMinDandy/Calo-Tracker/internal/notification/entity"
)

type emailTemplate struct {
	Subject string
	Body    string
}

// Email templates ship with the binary. They are keyed by the trigger that
// produced the event, and rendered with renderTemplate.
var emailTemplates = map[entity.TriggerKey]emailTemplate{
	entity.TriggerKeyPasswordOtp: {
		Subject: "Your CaloTracker password reset code",
		Body: `<!DOCTYPE html>
<html>
<body style="margin:0;padding:0;background-color:#f4f5f7;font-family:Arial,Helvetica,sans-serif;">
  <table role="presentation" width="100%" cellpadding="0" cellspacing="0">
    <tr>
      <td align="center" style="padding:32px 16px;">
        <table role="presentation" width="480" cellpadding="0" cellspacing="0" style="background-color:#ffffff;border-radius:8px;padding:32px;">
          <tr>
            <td style="font-size:20px;font-weight:bold;color:#16a34a;padding-bottom:16px;">{{.company_name}}</td>
          </tr>
          <tr>
            <td style="font-size:15px;color:#334155;padding-bottom:16px;">
              We received a request to reset the password for your account. Enter the code below to continue.
            </td>
          </tr>
          <tr>
            <td align="center" style="padding:8px 0 16px;">
              <span style="display:inline-block;font-size:32px;letter-spacing:8px;font-weight:bold;color:#0f172a;background-color:#f1f5f9;border-radius:6px;padding:12px 24px;">{{.otp}}</span>
            </td>
          </tr>
          <tr>
            <td style="font-size:14px;color:#64748b;padding-bottom:16px;">
              This code expires in {{.expires_in_minutes}} minutes. If you did not request a password reset, you can safely ignore this email.
            </td>
          </tr>
          <tr>
            <td style="font-size:12px;color:#94a3b8;border-top:1px solid #e2e8f0;padding-top:16px;">
              Need help? Contact us at {{.support_email}}<br>
              &copy; {{.year}} {{.company_name}}
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>`,
	},
	entity.TriggerKeyPasswordChanged: {
		Subject: "Your CaloTracker password was changed",
		Body: `<!DOCTYPE html>
<html>
<body style="margin:0;padding:0;background-color:#f4f5f7;font-family:Arial,Helvetica,sans-serif;">
  <table role="presentation" width="100%" cellpadding="0" cellspacing="0">
    <tr>
      <td align="center" style="padding:32px 16px;">
        <table role="presentation" width="480" cellpadding="0" cellspacing="0" style="background-color:#ffffff;border-radius:8px;padding:32px;">
          <tr>
            <td style="font-size:20px;font-weight:bold;color:#16a34a;padding-bottom:16px;">{{.company_name}}</td>
          </tr>
          <tr>
            <td style="font-size:15px;color:#334155;padding-bottom:16px;">
              The password for your account was just changed. You can now sign in with your new password.
            </td>
          </tr>
          <tr>
            <td style="font-size:14px;color:#64748b;padding-bottom:16px;">
              If this was not you, contact our support team immediately at {{.support_email}}.
            </td>
          </tr>
          <tr>
            <td style="font-size:12px;color:#94a3b8;border-top:1px solid #e2e8f0;padding-top:16px;">
              &copy; {{.year}} {{.company_name}}
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>`,
	},
}

func (s *Usecase) getTemplate(ctx context.Context, tk entity.TriggerKey) *emailTemplate {
	tpl, ok := emailTemplates[tk]
	if !ok {
		slog.WarnContext(ctx, "email template not found", "trigger_key", tk.String())
		return nil
	}

	return &tpl
}
