package utils

import (
	"fmt"
	"strconv"
	"time"
)

// ReferralCodePrefix — все коды имеют вид ref_<ownerID>_<base36>.
const ReferralCodePrefix = "ref_"

func NewReferralCode(ownerID int64) string {
	return fmt.Sprintf("%s%d_%s", ReferralCodePrefix, ownerID, strconv.FormatInt(time.Now().UnixMilli(), 36))
}

// CodeEmbedsOwner сообщает, зашит ли в код данный владелец.
// Дешёвая строковая проверка, используется клиентом до похода в сеть.
// Понимает оба формата: ref_<id>_<суффикс> и синтетический invite_<id>.
func CodeEmbedsOwner(code string, ownerID int64) bool {
	prefix := fmt.Sprintf("%s%d_", ReferralCodePrefix, ownerID)
	if len(code) > len(prefix) && code[:len(prefix)] == prefix {
		return true
	}
	return code == fmt.Sprintf("invite_%d", ownerID)
}
