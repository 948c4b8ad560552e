package mail

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildResetMessage(t *testing.T) {
	m := buildResetMessage("noreply@airline.test", "asha@example.com", "493021")

	assert.Equal(t, []string{"Airline Reservation Password Reset OTP"}, m.GetHeader("Subject"))
	assert.Equal(t, []string{"asha@example.com"}, m.GetHeader("To"))

	var buf bytes.Buffer
	_, err := m.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Your OTP is: 493021")
}

func TestLogSender(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetFormatter(&logrus.JSONFormatter{})

	sender := NewLogSender(logger)
	require.NoError(t, sender.SendPasswordResetOTP("asha@example.com", "493021"))

	assert.Contains(t, buf.String(), `"otp":"493021"`)
	assert.Contains(t, buf.String(), `"to":"asha@example.com"`)
}

func TestSMTPSender_Unreachable(t *testing.T) {
	sender := NewSMTPSender(Config{Host: "127.0.0.1", Port: 1, From: "noreply@airline.test"})
	err := sender.SendPasswordResetOTP("asha@example.com", "493021")
	assert.Error(t, err)
}
