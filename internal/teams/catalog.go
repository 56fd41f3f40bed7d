package teams

func ceased(year int) *int { return &year }

var catalog = []Info{
	{ID: "ANA", City: "Anaheim", Name: "Ducks", FullName: "Anaheim Ducks", NHLAbbrev: "ANA", PuckpediaSlug: "anaheim-ducks", InceptionYear: 1993,
		Theme: Theme{Primary: "#F47A38", OnPrimary: "#111111", Secondary: "#111111", OnSecondary: "#FFFFFF", Background: "#090909", Foreground: "#F6F6F6"}},
	{ID: "ARI", City: "Arizona", Name: "Coyotes", FullName: "Arizona Coyotes", NHLAbbrev: "ARI", PuckpediaSlug: "arizona-coyotes", InceptionYear: 2014, CessationYear: ceased(2023),
		Theme: Theme{Primary: "#8C2633", OnPrimary: "#FFFFFF", Secondary: "#E2D6B5", OnSecondary: "#111111", Background: "#12080A", Foreground: "#FBF6EE"}},
	{ID: "UTA", City: "Utah", Name: "Mammoth", FullName: "Utah Mammoth", NHLAbbrev: "UTA", PuckpediaSlug: "utah-mammoth", InceptionYear: 2024,
		Theme: Theme{Primary: "#5E0F7A", OnPrimary: "#FCEFFF", Secondary: "#0F5E50", OnSecondary: "#E8FFF9", Background: "#0A040C", Foreground: "#F8F4FF"}},
	{ID: "BOS", City: "Boston", Name: "Bruins", FullName: "Boston Bruins", NHLAbbrev: "BOS", PuckpediaSlug: "boston-bruins", InceptionYear: 1924,
		Theme: Theme{Primary: "#FFB81C", OnPrimary: "#111111", Secondary: "#111111", OnSecondary: "#FFFFFF", Background: "#050505", Foreground: "#F8F8F8"}},
	{ID: "BUF", City: "Buffalo", Name: "Sabres", FullName: "Buffalo Sabres", NHLAbbrev: "BUF", PuckpediaSlug: "buffalo-sabres", InceptionYear: 1970,
		Theme: Theme{Primary: "#002654", OnPrimary: "#FFFFFF", Secondary: "#FCB514", OnSecondary: "#102041", Background: "#040812", Foreground: "#F8FAFC"}},
	{ID: "CGY", City: "Calgary", Name: "Flames", FullName: "Calgary Flames", NHLAbbrev: "CGY", PuckpediaSlug: "calgary-flames", InceptionYear: 1980,
		Theme: Theme{Primary: "#C8102E", OnPrimary: "#FFE5D9", Secondary: "#F1BE48", OnSecondary: "#341108", Background: "#220606", Foreground: "#FFFAF5"}},
	{ID: "CAR", City: "Carolina", Name: "Hurricanes", FullName: "Carolina Hurricanes", NHLAbbrev: "CAR", PuckpediaSlug: "carolina-hurricanes", InceptionYear: 1997,
		Theme: Theme{Primary: "#CC0000", OnPrimary: "#FFECEC", Secondary: "#000000", OnSecondary: "#FFFFFF", Background: "#080808", Foreground: "#F6F6F6"}},
	{ID: "CHI", City: "Chicago", Name: "Blackhawks", FullName: "Chicago Blackhawks", NHLAbbrev: "CHI", PuckpediaSlug: "chicago-blackhawks", InceptionYear: 1926,
		Theme: Theme{Primary: "#CF0A2C", OnPrimary: "#FFE6EB", Secondary: "#000000", OnSecondary: "#FFFFFF", Background: "#0B0B0B", Foreground: "#F7F7F7"}},
	{ID: "COL", City: "Colorado", Name: "Avalanche", FullName: "Colorado Avalanche", NHLAbbrev: "COL", PuckpediaSlug: "colorado-avalanche", InceptionYear: 1995,
		Theme: Theme{Primary: "#6F263D", OnPrimary: "#F8E4EC", Secondary: "#236192", OnSecondary: "#EFF7FF", Background: "#120813", Foreground: "#F3F6FB"}},
	{ID: "CBJ", City: "Columbus", Name: "Blue Jackets", FullName: "Columbus Blue Jackets", NHLAbbrev: "CBJ", PuckpediaSlug: "columbus-blue-jackets", InceptionYear: 2000,
		Theme: Theme{Primary: "#002654", OnPrimary: "#FFFFFF", Secondary: "#CE1126", OnSecondary: "#FDEDEE", Background: "#03060E", Foreground: "#F8FAFC"}},
	{ID: "DAL", City: "Dallas", Name: "Stars", FullName: "Dallas Stars", NHLAbbrev: "DAL", PuckpediaSlug: "dallas-stars", InceptionYear: 1993,
		Theme: Theme{Primary: "#006847", OnPrimary: "#E6FFF6", Secondary: "#8F8F8C", OnSecondary: "#111111", Background: "#05100C", Foreground: "#F6F9F8"}},
	{ID: "DET", City: "Detroit", Name: "Red Wings", FullName: "Detroit Red Wings", NHLAbbrev: "DET", PuckpediaSlug: "detroit-red-wings", InceptionYear: 1926,
		Theme: Theme{Primary: "#CE1126", OnPrimary: "#FFE6EA", Secondary: "#FFFFFF", OnSecondary: "#B70B1E", Background: "#130203", Foreground: "#FFF8F9"}},
	{ID: "EDM", City: "Edmonton", Name: "Oilers", FullName: "Edmonton Oilers", NHLAbbrev: "EDM", PuckpediaSlug: "edmonton-oilers", InceptionYear: 1979,
		Theme: Theme{Primary: "#041E42", OnPrimary: "#FFFFFF", Secondary: "#FF4C00", OnSecondary: "#1A0B00", Background: "#030610", Foreground: "#F6F8FF"}},
	{ID: "FLA", City: "Florida", Name: "Panthers", FullName: "Florida Panthers", NHLAbbrev: "FLA", PuckpediaSlug: "florida-panthers", InceptionYear: 1993,
		Theme: Theme{Primary: "#041E42", OnPrimary: "#FFFFFF", Secondary: "#C8102E", OnSecondary: "#FFE7EC", Background: "#070D1B", Foreground: "#F6F8FF"}},
	{ID: "LAK", City: "Los Angeles", Name: "Kings", FullName: "Los Angeles Kings", NHLAbbrev: "LAK", PuckpediaSlug: "los-angeles-kings", InceptionYear: 1967,
		Theme: Theme{Primary: "#111111", OnPrimary: "#FFFFFF", Secondary: "#A2AAAD", OnSecondary: "#141A1D", Background: "#040404", Foreground: "#F7F7F7"}},
	{ID: "MIN", City: "Minnesota", Name: "Wild", FullName: "Minnesota Wild", NHLAbbrev: "MIN", PuckpediaSlug: "minnesota-wild", InceptionYear: 2000,
		Theme: Theme{Primary: "#154734", OnPrimary: "#E6FFF6", Secondary: "#A6192E", OnSecondary: "#FFE7EC", Background: "#06100B", Foreground: "#F5FAF7"}},
	{ID: "MTL", City: "Montréal", Name: "Canadiens", FullName: "Montréal Canadiens", NHLAbbrev: "MTL", PuckpediaSlug: "montreal-canadiens", InceptionYear: 1917,
		Theme: Theme{Primary: "#AF1E2D", OnPrimary: "#FFE6EA", Secondary: "#192168", OnSecondary: "#E6EDFF", Background: "#0A0F24", Foreground: "#F7F9FF"}},
	{ID: "NSH", City: "Nashville", Name: "Predators", FullName: "Nashville Predators", NHLAbbrev: "NSH", PuckpediaSlug: "nashville-predators", InceptionYear: 1998,
		Theme: Theme{Primary: "#FFB81C", OnPrimary: "#13213B", Secondary: "#041E42", OnSecondary: "#FFFFFF", Background: "#0B0F1C", Foreground: "#FFF9E5"}},
	{ID: "NJD", City: "New Jersey", Name: "Devils", FullName: "New Jersey Devils", NHLAbbrev: "NJD", PuckpediaSlug: "new-jersey-devils", InceptionYear: 1982,
		Theme: Theme{Primary: "#CE1126", OnPrimary: "#FFE5EA", Secondary: "#000000", OnSecondary: "#FFFFFF", Background: "#0A090A", Foreground: "#F6F6F6"}},
	{ID: "NYI", City: "New York", Name: "Islanders", FullName: "New York Islanders", NHLAbbrev: "NYI", PuckpediaSlug: "new-york-islanders", InceptionYear: 1972,
		Theme: Theme{Primary: "#00539B", OnPrimary: "#FFFFFF", Secondary: "#F47D30", OnSecondary: "#211104", Background: "#041021", Foreground: "#F5F9FF"}},
	{ID: "NYR", City: "New York", Name: "Rangers", FullName: "New York Rangers", NHLAbbrev: "NYR", PuckpediaSlug: "new-york-rangers", InceptionYear: 1926,
		Theme: Theme{Primary: "#0038A8", OnPrimary: "#FFFFFF", Secondary: "#C8102E", OnSecondary: "#FFE6EA", Background: "#030A1A", Foreground: "#F5F9FF"}},
	{ID: "OTT", City: "Ottawa", Name: "Senators", FullName: "Ottawa Senators", NHLAbbrev: "OTT", PuckpediaSlug: "ottawa-senators", InceptionYear: 1992,
		Theme: Theme{Primary: "#C52032", OnPrimary: "#FFE6EA", Secondary: "#000000", OnSecondary: "#FFFFFF", Background: "#0B090B", Foreground: "#F7F5F2"}},
	{ID: "PHI", City: "Philadelphia", Name: "Flyers", FullName: "Philadelphia Flyers", NHLAbbrev: "PHI", PuckpediaSlug: "philadelphia-flyers", InceptionYear: 1967,
		Theme: Theme{Primary: "#F74902", OnPrimary: "#160600", Secondary: "#000000", OnSecondary: "#FFFFFF", Background: "#0D0704", Foreground: "#FFF7F2"}},
	{ID: "PIT", City: "Pittsburgh", Name: "Penguins", FullName: "Pittsburgh Penguins", NHLAbbrev: "PIT", PuckpediaSlug: "pittsburgh-penguins", InceptionYear: 1967,
		Theme: Theme{Primary: "#FCB514", OnPrimary: "#111111", Secondary: "#000000", OnSecondary: "#FFFFFF", Background: "#060504", Foreground: "#F8F6F2"}},
	{ID: "SEA", City: "Seattle", Name: "Kraken", FullName: "Seattle Kraken", NHLAbbrev: "SEA", PuckpediaSlug: "seattle-kraken", InceptionYear: 2021,
		Theme: Theme{Primary: "#001628", OnPrimary: "#E6F8FF", Secondary: "#99D9D9", OnSecondary: "#002C39", Background: "#020914", Foreground: "#F2FBFF"}},
	{ID: "SJS", City: "San Jose", Name: "Sharks", FullName: "San Jose Sharks", NHLAbbrev: "SJS", PuckpediaSlug: "san-jose-sharks", InceptionYear: 1991,
		Theme: Theme{Primary: "#006D75", OnPrimary: "#E6FBFF", Secondary: "#EA7200", OnSecondary: "#1A0A00", Background: "#031314", Foreground: "#F2FCFC"}},
	{ID: "STL", City: "St. Louis", Name: "Blues", FullName: "St. Louis Blues", NHLAbbrev: "STL", PuckpediaSlug: "st-louis-blues", InceptionYear: 1967,
		Theme: Theme{Primary: "#002F87", OnPrimary: "#FFFFFF", Secondary: "#FCB514", OnSecondary: "#1A1202", Background: "#040A18", Foreground: "#F6F9FF"}},
	{ID: "TBL", City: "Tampa Bay", Name: "Lightning", FullName: "Tampa Bay Lightning", NHLAbbrev: "TBL", PuckpediaSlug: "tampa-bay-lightning", InceptionYear: 1992,
		Theme: Theme{Primary: "#002868", OnPrimary: "#FFFFFF", Secondary: "#0A1A2F", OnSecondary: "#E6F0FF", Background: "#010612", Foreground: "#F5F8FF"}},
	{ID: "TOR", City: "Toronto", Name: "Maple Leafs", FullName: "Toronto Maple Leafs", NHLAbbrev: "TOR", PuckpediaSlug: "toronto-maple-leafs", InceptionYear: 1917,
		Theme: Theme{Primary: "#00205B", OnPrimary: "#FFFFFF", Secondary: "#FFFFFF", OnSecondary: "#003C8F", Background: "#020816", Foreground: "#F2F6FF"}},
	{ID: "VAN", City: "Vancouver", Name: "Canucks", FullName: "Vancouver Canucks", NHLAbbrev: "VAN", PuckpediaSlug: "vancouver-canucks", InceptionYear: 1970,
		Theme: Theme{Primary: "#00205B", OnPrimary: "#FFFFFF", Secondary: "#00843D", OnSecondary: "#E6FFEE", Background: "#020916", Foreground: "#F3F8FF"}},
	{ID: "VGK", City: "Vegas", Name: "Golden Knights", FullName: "Vegas Golden Knights", NHLAbbrev: "VGK", PuckpediaSlug: "vegas-golden-knights", InceptionYear: 2017,
		Theme: Theme{Primary: "#B4975A", OnPrimary: "#111722", Secondary: "#333F48", OnSecondary: "#F8F9FA", Background: "#0B0D16", Foreground: "#F5FAFF"}},
	{ID: "WSH", City: "Washington", Name: "Capitals", FullName: "Washington Capitals", NHLAbbrev: "WSH", PuckpediaSlug: "washington-capitals", InceptionYear: 1974,
		Theme: Theme{Primary: "#041E42", OnPrimary: "#FFFFFF", Secondary: "#C8102E", OnSecondary: "#FFE7EC", Background: "#070E1E", Foreground: "#F4F8FF"}},
	{ID: "WPG", City: "Winnipeg", Name: "Jets", FullName: "Winnipeg Jets", NHLAbbrev: "WPG", PuckpediaSlug: "winnipeg-jets", InceptionYear: 2011,
		Theme: Theme{Primary: "#041E42", OnPrimary: "#FFFFFF", Secondary: "#AC162C", OnSecondary: "#FFE6EC", Background: "#050C1A", Foreground: "#F5F9FF"}},
}
