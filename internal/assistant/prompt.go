package assistant

import (
	"strings"

	"github.com/ashendes/bec-market/internal/catalog"
	"github.com/ashendes/bec-market/internal/models"
)

// Replies shown to the shopper when no model answer is available.
const (
	FallbackNotConfigured = "ขออภัยครับ ตอนนี้น้อง BEC เชื่อมต่อระบบ AI ไม่ได้เนื่องจากไม่ได้ตั้งค่า API Key แต่คุณยังสามารถเลือกซื้อสินค้าได้ตามปกตินะครับ!"
	FallbackUnavailable   = "น้อง BEC กำลังพักผ่อนอยู่ (ระบบขัดข้อง) ลองคุยใหม่ภายหลังนะครับ!"
	FallbackEmpty         = "ขออภัยครับ น้อง BEC งงนิดหน่อย รบกวนถามอีกครั้งได้ไหมครับ?"
)

// SystemInstruction builds the persona and rules sent with every
// conversation, grounded on products.
func SystemInstruction(products []models.Product) string {
	var b strings.Builder
	b.WriteString(`คุณคือ "น้อง BEC" ผู้ช่วยช้อปปิ้ง AI อัจฉริยะของร้าน BEC Market Shop วิทยาลัยการอาชีพบ้านผือ`)
	b.WriteString("\n\nข้อมูลสินค้าที่มีในร้าน:\n")
	b.WriteString(catalog.Listing(products))
	b.WriteString("\n\nกฎการทำงานของคุณ:\n")
	b.WriteString("1. แนะนำสินค้าตามระดับชั้นของผู้ใช้ (ปวช. หรือ ปวส.) อย่างแม่นยำ\n")
	b.WriteString("2. หากผู้ใช้ถามถึงราคา ให้ตอบราคาที่ถูกต้องจากรายการสินค้า\n")
	b.WriteString("3. ตอบเป็นภาษาไทยที่สุภาพ เป็นกันเอง")
	return b.String()
}
