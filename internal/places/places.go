package places

import (
	"net/url"
	"strings"
)

// Suggestion is one autocomplete hit for a place query.
type Suggestion struct {
	Name      string `json:"name"`
	ShortName string `json:"short_name"`
	URI       string `json:"uri"`
}

type location struct {
	name      string
	shortName string
}

// maxSuggestions caps autocomplete responses.
const maxSuggestions = 6

// locations is the static address book used for autocomplete. No
// network call is involved; the table mirrors the routes the service
// operates on.
var locations = []location{
	{"Bến xe Mỹ Đình, Nam Từ Liêm, Hà Nội", "BX Mỹ Đình"},
	{"Bến xe Giáp Bát, Hoàng Mai, Hà Nội", "BX Giáp Bát"},
	{"Bến xe Nước Ngầm, Hoàng Mai, Hà Nội", "BX Nước Ngầm"},
	{"Bến xe Gia Lâm, Long Biên, Hà Nội", "BX Gia Lâm"},
	{"Sân bay Nội Bài, Sóc Sơn, Hà Nội", "Nội Bài"},
	{"Hồ Gươm, Hoàn Kiếm, Hà Nội", "Hồ Gươm"},
	{"Royal City, Thanh Xuân, Hà Nội", "Royal City"},
	{"Times City, Hai Bà Trưng, Hà Nội", "Times City"},
	{"Đại học Bách Khoa, Hai Bà Trưng, Hà Nội", "ĐH Bách Khoa"},
	{"Bến xe Nam Định, TP Nam Định, Nam Định", "BX Nam Định"},
	{"Chợ Rồng, TP Nam Định, Nam Định", "Chợ Rồng"},
	{"Nhà thờ Lớn Nam Định, TP Nam Định, Nam Định", "Nhà thờ Nam Định"},
	{"Bến xe Thái Bình, TP Thái Bình, Thái Bình", "BX Thái Bình"},
	{"Quảng trường 14/10, TP Thái Bình, Thái Bình", "QT 14/10"},
	{"Bến xe Ninh Bình, TP Ninh Bình, Ninh Bình", "BX Ninh Bình"},
	{"Tràng An, Hoa Lư, Ninh Bình", "Tràng An"},
	{"Bến xe Hải Phòng, Ngô Quyền, Hải Phòng", "BX Hải Phòng"},
	{"Sân bay Cát Bi, Hải An, Hải Phòng", "Cát Bi"},
	{"Bến xe Hạ Long, TP Hạ Long, Quảng Ninh", "BX Hạ Long"},
	{"Bãi Cháy, TP Hạ Long, Quảng Ninh", "Bãi Cháy"},
	{"Bến xe Thanh Hóa, TP Thanh Hóa, Thanh Hóa", "BX Thanh Hóa"},
	{"Biển Sầm Sơn, TP Sầm Sơn, Thanh Hóa", "Sầm Sơn"},
	{"Bến xe Vinh, TP Vinh, Nghệ An", "BX Vinh"},
	{"Biển Cửa Lò, TP Cửa Lò, Nghệ An", "Cửa Lò"},
	{"Bến xe Lào Cai, TP Lào Cai, Lào Cai", "BX Lào Cai"},
	{"Thị trấn Sa Pa, Sa Pa, Lào Cai", "Sa Pa"},
}

// Search returns up to six locations whose full or short name contains
// the query, case-insensitively.
func Search(query string) []Suggestion {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return []Suggestion{}
	}

	matches := []Suggestion{}
	for _, loc := range locations {
		if !strings.Contains(strings.ToLower(loc.name), query) &&
			!strings.Contains(strings.ToLower(loc.shortName), query) {
			continue
		}
		matches = append(matches, Suggestion{
			Name:      loc.name,
			ShortName: loc.shortName,
			URI:       "https://www.google.com/maps/search/" + url.QueryEscape(loc.name),
		})
		if len(matches) == maxSuggestions {
			break
		}
	}
	return matches
}
