package flights

// majorAirports 内置的主要机场列表
var majorAirports = []Airport{
	// North America
	{Code: "LAX", Name: "Los Angeles International Airport", City: "Los Angeles", Country: "United States"},
	{Code: "JFK", Name: "John F. Kennedy International Airport", City: "New York", Country: "United States"},
	{Code: "LGA", Name: "LaGuardia Airport", City: "New York", Country: "United States"},
	{Code: "EWR", Name: "Newark Liberty International Airport", City: "Newark", Country: "United States"},
	{Code: "ORD", Name: "O'Hare International Airport", City: "Chicago", Country: "United States"},
	{Code: "MDW", Name: "Midway International Airport", City: "Chicago", Country: "United States"},
	{Code: "DFW", Name: "Dallas/Fort Worth International Airport", City: "Dallas", Country: "United States"},
	{Code: "DAL", Name: "Dallas Love Field", City: "Dallas", Country: "United States"},
	{Code: "DEN", Name: "Denver International Airport", City: "Denver", Country: "United States"},
	{Code: "LAS", Name: "Harry Reid International Airport", City: "Las Vegas", Country: "United States"},
	{Code: "PHX", Name: "Phoenix Sky Harbor International Airport", City: "Phoenix", Country: "United States"},
	{Code: "SEA", Name: "Seattle-Tacoma International Airport", City: "Seattle", Country: "United States"},
	{Code: "SFO", Name: "San Francisco International Airport", City: "San Francisco", Country: "United States"},
	{Code: "SJC", Name: "San Jose International Airport", City: "San Jose", Country: "United States"},
	{Code: "MIA", Name: "Miami International Airport", City: "Miami", Country: "United States"},
	{Code: "FLL", Name: "Fort Lauderdale-Hollywood International Airport", City: "Fort Lauderdale", Country: "United States"},
	{Code: "MCO", Name: "Orlando International Airport", City: "Orlando", Country: "United States"},
	{Code: "ATL", Name: "Hartsfield-Jackson Atlanta International Airport", City: "Atlanta", Country: "United States"},
	{Code: "CLT", Name: "Charlotte Douglas International Airport", City: "Charlotte", Country: "United States"},
	{Code: "IAH", Name: "George Bush Intercontinental Airport", City: "Houston", Country: "United States"},
	{Code: "HOU", Name: "William P. Hobby Airport", City: "Houston", Country: "United States"},
	{Code: "MSP", Name: "Minneapolis-Saint Paul International Airport", City: "Minneapolis", Country: "United States"},
	{Code: "DTW", Name: "Detroit Metropolitan Wayne County Airport", City: "Detroit", Country: "United States"},
	{Code: "PHL", Name: "Philadelphia International Airport", City: "Philadelphia", Country: "United States"},
	{Code: "BWI", Name: "Baltimore/Washington International Airport", City: "Baltimore", Country: "United States"},
	{Code: "DCA", Name: "Ronald Reagan Washington National Airport", City: "Washington", Country: "United States"},
	{Code: "IAD", Name: "Washington Dulles International Airport", City: "Washington", Country: "United States"},
	{Code: "BOS", Name: "Logan International Airport", City: "Boston", Country: "United States"},
	{Code: "YYZ", Name: "Toronto Pearson International Airport", City: "Toronto", Country: "Canada"},
	{Code: "YVR", Name: "Vancouver International Airport", City: "Vancouver", Country: "Canada"},
	{Code: "YUL", Name: "Montréal-Trudeau International Airport", City: "Montreal", Country: "Canada"},
	// Europe
	{Code: "LHR", Name: "Heathrow Airport", City: "London", Country: "United Kingdom"},
	{Code: "LGW", Name: "Gatwick Airport", City: "London", Country: "United Kingdom"},
	{Code: "STN", Name: "Stansted Airport", City: "London", Country: "United Kingdom"},
	{Code: "LTN", Name: "Luton Airport", City: "London", Country: "United Kingdom"},
	{Code: "CDG", Name: "Charles de Gaulle Airport", City: "Paris", Country: "France"},
	{Code: "ORY", Name: "Orly Airport", City: "Paris", Country: "France"},
	{Code: "FRA", Name: "Frankfurt Airport", City: "Frankfurt", Country: "Germany"},
	{Code: "MUC", Name: "Munich Airport", City: "Munich", Country: "Germany"},
	{Code: "AMS", Name: "Amsterdam Airport Schiphol", City: "Amsterdam", Country: "Netherlands"},
	{Code: "MAD", Name: "Adolfo Suárez Madrid-Barajas Airport", City: "Madrid", Country: "Spain"},
	{Code: "BCN", Name: "Barcelona-El Prat Airport", City: "Barcelona", Country: "Spain"},
	{Code: "FCO", Name: "Leonardo da Vinci-Fiumicino Airport", City: "Rome", Country: "Italy"},
	{Code: "MXP", Name: "Milan Malpensa Airport", City: "Milan", Country: "Italy"},
	{Code: "ZUR", Name: "Zurich Airport", City: "Zurich", Country: "Switzerland"},
	{Code: "VIE", Name: "Vienna International Airport", City: "Vienna", Country: "Austria"},
	{Code: "CPH", Name: "Copenhagen Airport", City: "Copenhagen", Country: "Denmark"},
	{Code: "ARN", Name: "Stockholm Arlanda Airport", City: "Stockholm", Country: "Sweden"},
	{Code: "OSL", Name: "Oslo Airport", City: "Oslo", Country: "Norway"},
	{Code: "HEL", Name: "Helsinki Airport", City: "Helsinki", Country: "Finland"},
	{Code: "WAW", Name: "Warsaw Chopin Airport", City: "Warsaw", Country: "Poland"},
	{Code: "PRG", Name: "Václav Havel Airport Prague", City: "Prague", Country: "Czech Republic"},
	{Code: "BUD", Name: "Budapest Ferenc Liszt International Airport", City: "Budapest", Country: "Hungary"},
	{Code: "ATH", Name: "Athens International Airport", City: "Athens", Country: "Greece"},
	{Code: "IST", Name: "Istanbul Airport", City: "Istanbul", Country: "Turkey"},
	{Code: "SVO", Name: "Sheremetyevo International Airport", City: "Moscow", Country: "Russia"},
	{Code: "LED", Name: "Pulkovo Airport", City: "St. Petersburg", Country: "Russia"},
	// Asia Pacific
	{Code: "NRT", Name: "Narita International Airport", City: "Tokyo", Country: "Japan"},
	{Code: "HND", Name: "Haneda Airport", City: "Tokyo", Country: "Japan"},
	{Code: "KIX", Name: "Kansai International Airport", City: "Osaka", Country: "Japan"},
	{Code: "ICN", Name: "Incheon International Airport", City: "Seoul", Country: "South Korea"},
	{Code: "GMP", Name: "Gimpo International Airport", City: "Seoul", Country: "South Korea"},
	{Code: "PEK", Name: "Beijing Capital International Airport", City: "Beijing", Country: "China"},
	{Code: "PKX", Name: "Beijing Daxing International Airport", City: "Beijing", Country: "China"},
	{Code: "PVG", Name: "Shanghai Pudong International Airport", City: "Shanghai", Country: "China"},
	{Code: "SHA", Name: "Shanghai Hongqiao International Airport", City: "Shanghai", Country: "China"},
	{Code: "CAN", Name: "Guangzhou Baiyun International Airport", City: "Guangzhou", Country: "China"},
	{Code: "SZX", Name: "Shenzhen Bao'an International Airport", City: "Shenzhen", Country: "China"},
	{Code: "HKG", Name: "Hong Kong International Airport", City: "Hong Kong", Country: "Hong Kong"},
	{Code: "TPE", Name: "Taiwan Taoyuan International Airport", City: "Taipei", Country: "Taiwan"},
	{Code: "TSA", Name: "Taipei Songshan Airport", City: "Taipei", Country: "Taiwan"},
	{Code: "SIN", Name: "Singapore Changi Airport", City: "Singapore", Country: "Singapore"},
	{Code: "KUL", Name: "Kuala Lumpur International Airport", City: "Kuala Lumpur", Country: "Malaysia"},
	{Code: "BKK", Name: "Suvarnabhumi Airport", City: "Bangkok", Country: "Thailand"},
	{Code: "DMK", Name: "Don Mueang International Airport", City: "Bangkok", Country: "Thailand"},
	{Code: "CGK", Name: "Soekarno-Hatta International Airport", City: "Jakarta", Country: "Indonesia"},
	{Code: "DPS", Name: "Ngurah Rai International Airport", City: "Denpasar", Country: "Indonesia"},
	{Code: "MNL", Name: "Ninoy Aquino International Airport", City: "Manila", Country: "Philippines"},
	{Code: "SYD", Name: "Sydney Kingsford Smith Airport", City: "Sydney", Country: "Australia"},
	{Code: "MEL", Name: "Melbourne Airport", City: "Melbourne", Country: "Australia"},
	{Code: "BNE", Name: "Brisbane Airport", City: "Brisbane", Country: "Australia"},
	{Code: "PER", Name: "Perth Airport", City: "Perth", Country: "Australia"},
	{Code: "AKL", Name: "Auckland Airport", City: "Auckland", Country: "New Zealand"},
	// Middle East & Africa
	{Code: "DXB", Name: "Dubai International Airport", City: "Dubai", Country: "United Arab Emirates"},
	{Code: "AUH", Name: "Abu Dhabi International Airport", City: "Abu Dhabi", Country: "United Arab Emirates"},
	{Code: "DOH", Name: "Hamad International Airport", City: "Doha", Country: "Qatar"},
	{Code: "KWI", Name: "Kuwait International Airport", City: "Kuwait City", Country: "Kuwait"},
	{Code: "RUH", Name: "King Khalid International Airport", City: "Riyadh", Country: "Saudi Arabia"},
	{Code: "JED", Name: "King Abdulaziz International Airport", City: "Jeddah", Country: "Saudi Arabia"},
	{Code: "CAI", Name: "Cairo International Airport", City: "Cairo", Country: "Egypt"},
	{Code: "JNB", Name: "O.R. Tambo International Airport", City: "Johannesburg", Country: "South Africa"},
	{Code: "CPT", Name: "Cape Town International Airport", City: "Cape Town", Country: "South Africa"},
	// South America
	{Code: "GRU", Name: "São Paulo-Guarulhos International Airport", City: "São Paulo", Country: "Brazil"},
	{Code: "GIG", Name: "Rio de Janeiro-Galeão International Airport", City: "Rio de Janeiro", Country: "Brazil"},
	{Code: "EZE", Name: "Ezeiza International Airport", City: "Buenos Aires", Country: "Argentina"},
	{Code: "SCL", Name: "Arturo Merino Benítez International Airport", City: "Santiago", Country: "Chile"},
	{Code: "LIM", Name: "Jorge Chávez International Airport", City: "Lima", Country: "Peru"},
	{Code: "BOG", Name: "El Dorado International Airport", City: "Bogotá", Country: "Colombia"},
}
