package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/apparel-shop/internal/config"
	"github.com/apparel-shop/internal/constants"
)

func TestCaptchaSkippedWhenSceneDisabled(t *testing.T) {
	svc := NewCaptchaService(config.CaptchaConfig{AdminLogin: false})
	if err := svc.Verify(constants.CaptchaSceneAdminLogin, CaptchaVerifyPayload{}); err != nil {
		t.Fatalf("disabled scene should pass, got %v", err)
	}
}

func TestCaptchaVerifyFlow(t *testing.T) {
	svc := NewCaptchaService(config.CaptchaConfig{AdminLogin: true, Length: 4})

	if err := svc.Verify(constants.CaptchaSceneAdminLogin, CaptchaVerifyPayload{}); !errors.Is(err, ErrCaptchaRequired) {
		t.Fatalf("want ErrCaptchaRequired got %v", err)
	}

	challenge, err := svc.GenerateImageChallenge()
	if err != nil {
		t.Fatalf("generate captcha failed: %v", err)
	}
	if challenge.CaptchaID == "" || !strings.Contains(challenge.ImageBase64, "base64,") {
		t.Fatalf("unexpected challenge: id=%q", challenge.CaptchaID)
	}

	answer := svc.store.Get(challenge.CaptchaID, false)
	if err := svc.Verify(constants.CaptchaSceneAdminLogin, CaptchaVerifyPayload{CaptchaID: challenge.CaptchaID, CaptchaCode: "!!!!"}); !errors.Is(err, ErrCaptchaInvalid) {
		t.Fatalf("want ErrCaptchaInvalid got %v", err)
	}
	// 校验失败后验证码已被清除
	if err := svc.Verify(constants.CaptchaSceneAdminLogin, CaptchaVerifyPayload{CaptchaID: challenge.CaptchaID, CaptchaCode: answer}); !errors.Is(err, ErrCaptchaInvalid) {
		t.Fatalf("captcha should be single use, got %v", err)
	}
}
