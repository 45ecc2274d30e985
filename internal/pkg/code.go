package pkg

import (
	cryptoRand "crypto/rand"
	"math/big"
	"strings"
)

// RandDigits 邮件验证码用的纯数字随机串
func RandDigits(n int) (string, error) {
	var b strings.Builder
	for i := 0; i < n; i++ {
		x, err := cryptoRand.Int(cryptoRand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		b.WriteByte(byte('0' + x.Int64()))
	}
	return b.String(), nil
}

// 去掉易混字符（0/O、1/I/l）
const inviteAlphabet = "abcdefghjkmnpqrstuvwxyz23456789"

// RandInviteCode 房间邀请码
func RandInviteCode(n int) (string, error) {
	var b strings.Builder
	size := big.NewInt(int64(len(inviteAlphabet)))
	for i := 0; i < n; i++ {
		x, err := cryptoRand.Int(cryptoRand.Reader, size)
		if err != nil {
			return "", err
		}
		b.WriteByte(inviteAlphabet[x.Int64()])
	}
	return b.String(), nil
}
