package catalog

import "github.com/ashendes/bec-market/internal/models"

var staticProducts = []models.Product{
	{ID: "1", Name: "เสื้อเชิ้ตนักศึกษาชาย แขนสั้น", Price: 230, Category: models.CategoryUniform, Description: "เสื้อเชิ้ตสีขาวผ้าคอตตอน ใส่สบาย ระบายอากาศได้ดี", Image: "/image/1.png", Stock: 100, Level: models.LevelVocational, IsRecommended: true},
	{ID: "2", Name: "กางเกงสแล็คชาย", Price: 220, Category: models.CategoryUniform, Description: "กางเกงสแล็คสีดำ ผ้าโซล่อน ทรงสวย ใส่เรียนหรือใส่ทำงานก็ได้", Image: "/image/2.png", Stock: 30, Level: models.LevelVocational},
	{ID: "3", Name: "เสื้อเชิ้ตนักศึกษาชาย แขนยาว", Price: 350, Category: models.CategoryUniform, Description: "เสื้อเชิ้ตสีขาวผ้าคอตตอน ใส่สบาย ระบายอากาศได้", Image: "/image/3.png", Stock: 100, Level: models.LevelHighVocational, IsRecommended: true},
	{ID: "4", Name: "กางเกงสแล็คชาย", Price: 380, Category: models.CategoryUniform, Description: "กางเกงสแล็คสีดำ ผ้านาโน ทรงสวย ใส่เรียนหรือใส่ทำงานก็ได้", Image: "/image/4.png", Stock: 100, Level: models.LevelHighVocational},
	{ID: "5", Name: "เสื้อเชิ้ตนักศึกษาหญิง แขนสั้น", Price: 220, Category: models.CategoryUniform, Description: "เนื้อผ้าหนาใส่สบาย ระบายอากาศได้ดี ซักง่าย รีดง่าย", Image: "/image/5.png", Stock: 100, Level: models.LevelVocational, IsRecommended: true},
	{ID: "7", Name: "เสื้อเชิ้ตนักศึกษาหญิง แขนยาว", Price: 270, Category: models.CategoryUniform, Description: "เนื้อผ้าหนาใส่สบาย ระบายอากาศได้ดี ซักง่าย รีดง่าย", Image: "/image/7.png", Stock: 100, Level: models.LevelHighVocational},
	{ID: "6", Name: "กระโปรงทรงเอ ผ่าหลัง (ผ่าซ้อนทับ)", Price: 120, Category: models.CategoryUniform, Description: "เนื้อผ้าหนาใส่สบาย ระบายอากาศได้ดี ซักง่าย รีดง่าย ความยาว 20\" 22\" 24\" 26\" 28\"", Image: "/image/6.png", Stock: 100, Level: models.LevelBoth, IsRecommended: true},
	{ID: "8", Name: "เสื้อพละศึกษา", Price: 370, Category: models.CategoryUniform, Description: "เนื้อผ้าหนาใส่สบาย ระบายอากาศได้ดี ซักง่าย", Image: "/image/8.png", Stock: 100, Level: models.LevelBoth, IsRecommended: true},
	{ID: "9", Name: "เสื้อช็อปนักศึกษา(สายช่าง/อุตสาหกรรม)", Price: 300, Category: models.CategoryUniform, Description: "เนื้อผ้าหนาใส่สบาย ระบายอากาศได้ดี ซักง่าย รีดง่าย", Image: "/image/9.png", Stock: 100, Level: models.LevelVocational},
	{ID: "10", Name: "เสื้อช็อปนักศึกษา(สายช่าง/อุตสาหกรรม)", Price: 300, Category: models.CategoryUniform, Description: "เนื้อผ้าหนาใส่สบาย ระบายอากาศได้ดี ซักง่าย รีดง่าย", Image: "/image/10.png", Stock: 100, Level: models.LevelHighVocational},
	{ID: "11", Name: "เสื้อช็อปนักศึกษา(สายพาณิชย์/บริหารธุรกิจ)", Price: 300, Category: models.CategoryUniform, Description: "เนื้อผ้าหนาใส่สบาย ระบายอากาศได้ดี ซักง่าย รีดง่าย", Image: "/image/11.png", Stock: 100, Level: models.LevelVocational},
	{ID: "12", Name: "เสื้อช็อปนักศึกษา(สายพาณิชย์/บริหารธุรกิจ)", Price: 300, Category: models.CategoryUniform, Description: "เนื้อผ้าหนาใส่สบาย ระบายอากาศได้ดี ซักง่าย รีดง่าย", Image: "/image/12.png", Stock: 100, Level: models.LevelHighVocational},
	{ID: "20", Name: "เข็มกลัดติดหน้าอก", Price: 70, Category: models.CategoryAccessories, Description: "เข็มกลัดตราวิทยาลัย ชุบทองเหลือง", Image: "/image/20.png", Stock: 60, Level: models.LevelGeneral},
	{ID: "21", Name: "กระดุม,ตุ้งติ้ง", Price: 100, Category: models.CategoryAccessories, Description: "กระดุมและตุ้งติ้ง จากโลหะชุบเงินอย่างดี สำหรับนักเรียนและนักศึกษาผู้หญิง", Image: "/image/21.png", Stock: 60, Level: models.LevelGeneral},
	{ID: "22", Name: "เนคไทวิทยาลัย", Price: 120, Category: models.CategoryAccessories, Description: "เนคไทสีน้ำเงินเข้ม ปักตราสัญลักษณ์วิทยาลัย", Image: "/image/22.png", Stock: 80, Level: models.LevelGeneral},
	{ID: "23", Name: "เข็มขัดวิทยาลัย", Price: 200, Category: models.CategoryAccessories, Description: "เข็มขัดหนังสีดำพร้อมหัวเข็มขัดตรามหาวิทยาลัย", Image: "/image/23.png", Stock: 100, Level: models.LevelGeneral},
	{ID: "46", Name: "ถุงเท้าข้อสั้นสีดำ (แพ็ค 6 คู่)", Price: 100, Category: models.CategoryAccessories, Description: "ถุงเท้าสีดำล้วน นุ่มสบาย ทนทาน", Image: "/image/46.png", Stock: 60, Level: models.LevelGeneral},
	{ID: "48", Name: "สมุดจดบันทึก", Price: 5, Category: models.CategoryStationery, Description: "สมุดจดบันทึกปกแข็ง ลายวิทยาลัย", Image: "/image/48.png", Stock: 100, Level: models.LevelGeneral, IsRecommended: true},
}

// Static returns a copy of the built-in catalog.
func Static() []models.Product {
	return append([]models.Product(nil), staticProducts...)
}
