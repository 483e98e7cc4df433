package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"procurement-backend/inbound"
	"procurement-backend/logging"
	"procurement-backend/metrics"
	"procurement-backend/services"
)

const sourceMailgun = "mailgun"

// MailgunInbound receives vendor replies from Mailgun. It answers 200 whatever
// happens so the relay does not keep redelivering.
func (ctl *Controller) MailgunInbound(c *fiber.Ctx) error {
	log := logging.Log.WithField("source", sourceMailgun)

	if ctl.webhook != nil && ctl.webhook.SignatureConfigured() {
		ok, err := ctl.webhook.VerifySignature(
			c.FormValue(inbound.FieldTimestamp),
			c.FormValue(inbound.FieldToken),
			c.FormValue(inbound.FieldSignature),
		)
		if err != nil || !ok {
			log.WithError(err).Warn("dropping inbound email with invalid signature")
			metrics.RecordInbound(sourceMailgun, "rejected")
			return c.SendStatus(fiber.StatusOK)
		}
	}

	email, err := inbound.FromForm(func(key string) string { return c.FormValue(key) })
	if err != nil {
		log.WithError(err).Error("could not read inbound email")
		metrics.RecordInbound(sourceMailgun, "failed")
		return c.SendStatus(fiber.StatusOK)
	}

	reply, err := ctl.svc.ProcessInboundReply(c.UserContext(), email)
	switch {
	case errors.Is(err, services.ErrNoMatchingSentRfp):
		log.WithFields(logrus.Fields{"from": email.From, "subject": email.Subject}).
			WithError(err).Warn("inbound email ignored")
		metrics.RecordInbound(sourceMailgun, "unmatched")
	case err != nil:
		log.WithError(err).Error("processing inbound email failed")
		metrics.RecordInbound(sourceMailgun, "failed")
	default:
		log.WithField("reply_id", reply.ID).Info("inbound email stored")
		metrics.RecordInbound(sourceMailgun, "stored")
	}
	return c.SendStatus(fiber.StatusOK)
}
