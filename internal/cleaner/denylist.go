package cleaner

// DefaultDenyList holds navigation labels, legal boilerplate and locale names found
// on the tracked press-release pages. Entries are removed as substrings, in order.
var DefaultDenyList = []string{
	"Skip to content",
	"Business websites",
	"J&J Innovative Medicine",
	"J&J MedTech",
	"US • English",
	"Choose your country or region",
	"Latest news",
	"Innovation",
	"Caring & giving",
	"Personal stories",
	"Health & wellness",
	"Our Company",
	"Discover J&J",
	"Our Credo",
	"Our Leadership",
	"Code of Business Conduct",
	"Corporate reports",
	"Diversity, Equity & Inclusion",
	"ESG Policies & Positions",
	"Innovation at J&J",
	"Uniting science and technology",
	"Office of the Chief Medical Officer",
	"Veterans, military & military families",
	"Innovative Medicine",
	"MedTech",
	"Our societal impact",
	"Global Health Equity",
	"Global environmental sustainability",
	"Suppliers",
	"Responsible supply base",
	"Supplier-enabled innovation",
	"Supplier resources",
	"Our heritage",
	"Careers",
	"Life at J&J",
	"Diversity, Equity and Inclusion",
	"Career areas of impact",
	"Students",
	"Re-Ignite Program",
	"Contract & freelance partner opportunities",
	"Career stories",
	"Investors",
	"Pharmaceutical pipeline",
	"ESG resources",
	"Investor fact sheet",
	"Media Center",
	"Menu",
	"Search Query",
	"Submit Search",
	"Clear",
	"Dictate search request",
	"Search Results",
	"No Results",
	"Recently Viewed",
	"Listening...",
	"Sorry, I don't understand. Please try again",
	"Show Search",
	"Home",
	"/",
	"JNJ.com",
	"NewPharm.com",
	"China",
	"中国人",
	"France",
	"Français",
	"India",
	"English",
	"Japan",
	"日本",
	"Switzerland",
	"Deutsch",
	"United Kingdom",
	" at J&J",
	"Announcements",
	"Our commitments",
	"Environment, social, governance",
	"Sustainability",
	"Get in touch",
	"Contact us",
	"youtube",
	"facebook",
	"twitter",
	"linkedin",
	"This site is governed solely by applicable U.S. laws and governmental regulations. Please see our",
	"Privacy Policy",
	"Use of this site constitutes your consent to application of such laws and regulations and to our",
	"Legal Notice",
	"Cookie Policy",
	"You should view the",
	"News",
	"section and the most recent SEC Filings in the Investor section in order to receive the most current information made available by Johnson & Johnson Services, Inc.",
	"with any questions or search this site for more information.",
	"Do Not Sell or Share My Personal Information",
	"Limit the Use of My Sensitive Personal Information",
	"© 2024 Johnson & Johnson Services, Inc.",
	"Terms of Use",
	"Customize Cookie Settings",
	"Back to top",
}
