package content

// Site is the content of one locale.
type Site struct {
	Locale       string       `yaml:"locale"`
	Brand        Brand        `yaml:"brand"`
	Meta         Meta         `yaml:"meta"`
	Nav          Nav          `yaml:"nav"`
	Hero         Hero         `yaml:"hero"`
	HowItWorks   HowItWorks   `yaml:"how_it_works"`
	Services     Services     `yaml:"services"`
	Testimonials Testimonials `yaml:"testimonials"`
	Brands       Brands       `yaml:"brands"`
	Newsletter   Newsletter   `yaml:"newsletter"`
	CTA          CTA          `yaml:"cta"`
	Footer       Footer       `yaml:"footer"`
}

type Brand struct {
	Name    string `yaml:"name"`
	Tagline string `yaml:"tagline"`
	Logo    Image  `yaml:"logo"`
}

type Meta struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

type Link struct {
	Label string `yaml:"label"`
	Href  string `yaml:"href"`
}

type Image struct {
	Src string `yaml:"src"`
	Alt string `yaml:"alt"`
}

// Nav is the top navigation. Greeting is a format with one %s for the
// signed-in viewer's name; CartLabel has one %d for the item count.
type Nav struct {
	Links     []Link `yaml:"links"`
	SignIn    Link   `yaml:"sign_in"`
	Greeting  string `yaml:"greeting"`
	CartLabel string `yaml:"cart_label"`
	CartHref  string `yaml:"cart_href"`
}

type Hero struct {
	Eyebrow  string `yaml:"eyebrow"`
	Title    string `yaml:"title"`
	Subtitle string `yaml:"subtitle"`
	CTA      Link   `yaml:"cta"`
	Image    Image  `yaml:"image"`
}

type HowItWorks struct {
	Title string `yaml:"title"`
	Steps []Step `yaml:"steps"`
}

type Step struct {
	Title string `yaml:"title"`
	Body  string `yaml:"body"`
	Icon  string `yaml:"icon"`
}

type Services struct {
	Title string    `yaml:"title"`
	Items []Service `yaml:"items"`
}

type Service struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Image       Image  `yaml:"image"`
}

type Testimonials struct {
	Title string        `yaml:"title"`
	Items []Testimonial `yaml:"items"`
}

type Testimonial struct {
	Quote  string `yaml:"quote"`
	Author string `yaml:"author"`
	Event  string `yaml:"event"`
	Avatar Image  `yaml:"avatar"`
}

type Brands struct {
	Title string      `yaml:"title"`
	Items []BrandLogo `yaml:"items"`
}

type BrandLogo struct {
	Name string `yaml:"name"`
	Logo Image  `yaml:"logo"`
	URL  string `yaml:"url"`
}

// Newsletter is the copy of the signup widget.
type Newsletter struct {
	Heading      string `yaml:"heading"`
	Body         string `yaml:"body"`
	Label        string `yaml:"label"`
	Placeholder  string `yaml:"placeholder"`
	Button       string `yaml:"button"`
	Confirmation string `yaml:"confirmation"`
}

type CTA struct {
	Title  string `yaml:"title"`
	Body   string `yaml:"body"`
	Button Link   `yaml:"button"`
}

type Footer struct {
	Columns   []FooterColumn `yaml:"columns"`
	Copyright string         `yaml:"copyright"`
}

type FooterColumn struct {
	Title string `yaml:"title"`
	Links []Link `yaml:"links"`
}
