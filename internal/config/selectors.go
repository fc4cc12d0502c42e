// File: internal/config/selectors.go
package config

import "github.com/spf13/viper"

// Selectors is the catalog of XPath locators the campaigns drive the page
// with. Every locator is configurable so markup drift can be absorbed
// without a rebuild.
type Selectors struct {
	// Connection campaign.
	InviteControls  string `mapstructure:"invite_controls" yaml:"invite_controls"`
	SendWithoutNote string `mapstructure:"send_without_note" yaml:"send_without_note"`
	Send            string `mapstructure:"send" yaml:"send"`
	Dismiss         string `mapstructure:"dismiss" yaml:"dismiss"`
	Next            string `mapstructure:"next" yaml:"next"`
	GotIt           string `mapstructure:"got_it" yaml:"got_it"`

	// Profile detail pages opened in background contexts. ProfileLink is
	// relative to an invite control and walks up to the result row.
	ProfileLink    string `mapstructure:"profile_link" yaml:"profile_link"`
	ProfileMore    string `mapstructure:"profile_more" yaml:"profile_more"`
	ProfileConnect string `mapstructure:"profile_connect" yaml:"profile_connect"`

	// Authentication.
	SignedInProbe string `mapstructure:"signed_in_probe" yaml:"signed_in_probe"`
	LoginUser     string `mapstructure:"login_user" yaml:"login_user"`
	LoginPass     string `mapstructure:"login_pass" yaml:"login_pass"`
	LoginSubmit   string `mapstructure:"login_submit" yaml:"login_submit"`

	// Job campaign.
	SearchKeyword     string `mapstructure:"search_keyword" yaml:"search_keyword"`
	SearchLocation    string `mapstructure:"search_location" yaml:"search_location"`
	SearchSubmit      string `mapstructure:"search_submit" yaml:"search_submit"`
	JobCards          string `mapstructure:"job_cards" yaml:"job_cards"`
	JobCardTitle      string `mapstructure:"job_card_title" yaml:"job_card_title"`
	JobCardCompany    string `mapstructure:"job_card_company" yaml:"job_card_company"`
	JobCardLocation   string `mapstructure:"job_card_location" yaml:"job_card_location"`
	JobCardPostTime   string `mapstructure:"job_card_post_time" yaml:"job_card_post_time"`
	JobCardLink       string `mapstructure:"job_card_link" yaml:"job_card_link"`
	EasyApply         string `mapstructure:"easy_apply" yaml:"easy_apply"`
	FormAdvance       string `mapstructure:"form_advance" yaml:"form_advance"`
	SubmitApplication string `mapstructure:"submit_application" yaml:"submit_application"`
	SuccessIndicator  string `mapstructure:"success_indicator" yaml:"success_indicator"`
}

func setSelectorDefaults(v *viper.Viper) {
	v.SetDefault("selectors.invite_controls", "//button[span[text()='Connect' or text()='Follow']]")
	v.SetDefault("selectors.send_without_note", "//button[@aria-label='Send without a note']")
	v.SetDefault("selectors.send", "//button[span[text()='Send']]")
	v.SetDefault("selectors.dismiss", "//button[@aria-label='Dismiss']")
	v.SetDefault("selectors.next", "//button[@aria-label='Next']")
	v.SetDefault("selectors.got_it", "//button[span[text()='Got it']]")

	v.SetDefault("selectors.profile_link", "ancestor::li//a[contains(@href,'/in/')]")
	v.SetDefault("selectors.profile_more", "//main//button[span[text()='More']]")
	v.SetDefault("selectors.profile_connect", "//div[contains(@class,'dropdown')]//span[text()='Connect']/ancestor::div[@role='button' or self::div][1] | //main//button[span[text()='Connect']]")

	v.SetDefault("selectors.signed_in_probe", "//*[@id='global-nav']")
	v.SetDefault("selectors.login_user", "//input[@id='username']")
	v.SetDefault("selectors.login_pass", "//input[@id='password']")
	v.SetDefault("selectors.login_submit", "//button[@type='submit']")

	v.SetDefault("selectors.search_keyword", "//input[contains(@id,'jobs-search-box-keyword')]")
	v.SetDefault("selectors.search_location", "//input[contains(@id,'jobs-search-box-location')]")
	v.SetDefault("selectors.search_submit", "//button[contains(@class,'jobs-search-box__submit-button')]")
	v.SetDefault("selectors.job_cards", "//div[contains(@class,'job-card-container')]")
	v.SetDefault("selectors.job_card_title", ".//a[contains(@class,'job-card-list__title') or contains(@class,'job-card-container__link')]")
	v.SetDefault("selectors.job_card_company", ".//*[contains(@class,'primary-description') or contains(@class,'company-name')]")
	v.SetDefault("selectors.job_card_location", ".//*[contains(@class,'metadata-item')][1]")
	v.SetDefault("selectors.job_card_post_time", ".//time")
	v.SetDefault("selectors.job_card_link", ".//a[contains(@href,'/jobs/view/')]")
	v.SetDefault("selectors.easy_apply", "//button[contains(@class,'jobs-apply-button')][span[contains(text(),'Easy Apply')]]")
	v.SetDefault("selectors.form_advance", "//button[@aria-label='Continue to next step' or @aria-label='Review your application']")
	v.SetDefault("selectors.submit_application", "//button[@aria-label='Submit application']")
	v.SetDefault("selectors.success_indicator", "//h2[contains(text(),'Application submitted') or contains(text(),'submitted')]")
}
