package models

import "sort"

// Constituencies maps each revenue district to its assembly constituencies
var Constituencies = map[string][]string{
	"Ariyalur":        {"Ariyalur", "Jayankondam"},
	"Chengalpattu":    {"Shozhinganallur", "Pallavaram", "Tambaram", "Chengalpattu", "Thiruporur", "Cheyyur", "Madurantakam"},
	"Chennai":         {"Dr.Radhakrishnan Nagar", "Perambur", "Kolathur", "Villivakkam", "Thiru-Vi-Ka-Nagar", "Egmore", "Royapuram", "Harbour", "Chepauk- Thiruvallikeni", "Thousand Lights", "Anna Nagar", "Virugampakkam", "Saidapet", "Thiyagarayanagar", "Mylapore", "Velachery"},
	"Coimbatore":      {"Mettuppalayam", "Sulur", "Kavundampalayam", "Coimbatore (North)", "Thondamuthur", "Coimbatore (South)", "Singanallur", "Kinathukadavu", "Pollachi", "Valparai"},
	"Cuddalore":       {"Tittakudi", "Vriddhachalam", "Neyveli", "Panruti", "Cuddalore", "Kurinjipadi", "Bhuvanagiri", "Chidambaram", "Kattumannarkoil"},
	"Dharmapuri":      {"Palacodu", "Pennagaram", "Dharmapuri", "Pappireddippatti", "Harur"},
	"Dindigul":        {"Palani", "Oddanchatram", "Athoor", "Nilakkottai", "Natham", "Dindigul", "Vedasandur"},
	"Erode":           {"Erode (East)", "Erode (West)", "Modakkurichi", "Perundurai", "Bhavani", "Anthiyur", "Gobichettipalayam", "Bhavanisagar"},
	"Kallakurichi":    {"Ulundurpettai", "Rishivandiyam", "Sankarapuram", "Kallakurichi"},
	"Kanchipuram":     {"Alandur", "Sriperumbudur", "Uthiramerur", "Kancheepuram"},
	"Kanyakumari":     {"Kanniyakumari", "Nagercoil", "Colachel", "Padmanabhapuram", "Vilavancode", "Killiyoor"},
	"Karur":           {"Aravakurichi", "Karur", "Krishnarayapuram", "Kulithalai"},
	"Krishnagiri":     {"Uthangarai", "Bargur", "Krishnagiri", "Veppanahalli", "Hosur", "Thalli"},
	"Madurai":         {"Melur", "Madurai East", "Sholavandan", "Madurai North", "Madurai South", "Madurai Central", "Madurai West", "Thiruparankundram", "Thirumangalam", "Usilampatti"},
	"Mayiladuthurai":  {"Sirkazhi", "Mayiladuthurai", "Poompuhar"},
	"Nagapattinam":    {"Nagapattinam", "Kilvelur", "Vedaranyam"},
	"Namakkal":        {"Rasipuram", "Senthamangalam", "Namakkal", "Paramathi-Velur", "Tiruchengodu", "Kumarapalayam"},
	"Nilgiris":        {"Udhagamandalam", "Gudalur", "Coonoor"},
	"Perambalur":      {"Perambalur", "Kunnam"},
	"Pudukkottai":     {"Gandharvakottai", "Viralimalai", "Pudukkottai", "Thirumayam", "Alangudi", "Aranthangi"},
	"Ramanathapuram":  {"Paramakudi", "Tiruvadanai", "Ramanathapuram", "Mudhukulathur"},
	"Ranipet":         {"Arakkonam", "Sholingur", "Ranipet", "Arcot"},
	"Salem":           {"Gangavalli", "Attur", "Yercaud", "Omalur", "Mettur", "Edappadi", "Sankari", "Salem (West)", "Salem (North)", "Salem (South)", "Veerapandi"},
	"Sivaganga":       {"Karaikudi", "Tiruppattur", "Sivaganga", "Manamadurai"},
	"Tenkasi":         {"Sankarankovil", "Vasudevanallur", "Kadayanallur", "Tenkasi", "Alangulam"},
	"Thanjavur":       {"Thiruvidaimarudur", "Kumbakonam", "Papanasam", "Thiruvaiyaru", "Thanjavur", "Orathanadu", "Pattukkottai", "Peravurani"},
	"Theni":           {"Andipatti", "Periyakulam", "Bodinayakanur", "Cumbum"},
	"Thoothukudi":     {"Vilathikulam", "Thoothukkudi", "Tiruchendur", "Srivaikuntam", "Ottapidaram", "Kovilpatti"},
	"Tiruchirappalli": {"Manapparai", "Srirangam", "Tiruchirappalli (West)", "Tiruchirappalli (East)", "Thiruverumbur", "Lalgudi", "Manachanallur", "Musiri", "Thuraiyur"},
	"Tirunelveli":     {"Tirunelveli", "Ambasamudram", "Palayamkottai", "Nanguneri", "Radhapuram"},
	"Tirupathur":      {"Vaniyambadi", "Ambur", "Jolarpet", "Tiruppattur"},
	"Tiruppur":        {"Dharapuram", "Kangayam", "Avanashi", "Tiruppur (North)", "Tiruppur (South)", "Palladam", "Udumalaipettai", "Madathukulam"},
	"Tiruvallur":      {"Gummidipoondi", "Ponneri", "Tiruttani", "Thiruvallur", "Poonamallee", "Avadi", "Maduravoyal", "Ambattur", "Madavaram", "Tiruvottiyur"},
	"Tiruvannamalai":  {"Chengam", "Tiruvannamalai", "Kilpennathur", "Kalasapakkam", "Polur", "Arani", "Cheyyar", "Vandavasi"},
	"Tiruvarur":       {"Thiruthuraipoondi", "Mannargudi", "Thiruvarur", "Nannilam"},
	"Vellore":         {"Katpadi", "Vellore", "Anaikattu", "Kilvaithinankuppam", "Gudiyattam"},
	"Viluppuram":      {"Gingee", "Mailam", "Tindivanam", "Vanur", "Viluppuram", "Vikravandi", "Tirukkoyilur"},
	"Virudhunagar":    {"Rajapalayam", "Srivilliputhur", "Sattur", "Sivakasi", "Virudhunagar", "Aruppukkottai", "Tiruchuli"},
}

// Districts returns the revenue districts in alphabetical order
func Districts() []string {
	out := make([]string, 0, len(Constituencies))
	for d := range Constituencies {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// IsDistrict reports whether d is a known revenue district
func IsDistrict(d string) bool {
	_, ok := Constituencies[d]
	return ok
}

// InDistrict reports whether constituency belongs to district
func InDistrict(district, constituency string) bool {
	for _, c := range Constituencies[district] {
		if c == constituency {
			return true
		}
	}
	return false
}
