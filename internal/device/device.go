package device

import (
	ua "github.com/mileusna/useragent"
)

// Platform 平台分类结果
type Platform string

const (
	PlatformIOS     Platform = "ios"
	PlatformAndroid Platform = "android"
	PlatformOther   Platform = "other"
)

// Unknown 解析不出来的字段统一用这个占位
const Unknown = "Unknown"

// Info 设备描述信息，用于埋点和日志
type Info struct {
	Platform       Platform `json:"platform"`
	DeviceFamily   string   `json:"device_family"`
	OSFamily       string   `json:"os_family"`
	OSVersion      string   `json:"os_version"`
	Browser        string   `json:"browser"`
	BrowserVersion string   `json:"browser_version"`
	IsMobile       bool     `json:"is_mobile"`
	IsTablet       bool     `json:"is_tablet"`
	IsBot          bool     `json:"is_bot"`
}

// Detect 根据 User-Agent 判断请求方平台
// 纯函数，任意畸形输入都不会报错，解析失败一律归为 other
//
// 注意：iOS 分支额外要求 mobile 标记，Android 分支不要求。
// iPad 的 UA 不带 mobile 标记，因此会被归为 other，这里保留该行为不做"修正"。
func Detect(userAgent string) Platform {
	if userAgent == "" {
		return PlatformOther
	}
	return classify(ua.Parse(userAgent))
}

// Describe 解析 User-Agent 得到完整的设备描述
// 空输入返回全 Unknown/false 的默认值，不算错误
func Describe(userAgent string) Info {
	if userAgent == "" {
		return Info{
			Platform:       PlatformOther,
			DeviceFamily:   Unknown,
			OSFamily:       Unknown,
			OSVersion:      Unknown,
			Browser:        Unknown,
			BrowserVersion: Unknown,
		}
	}

	parsed := ua.Parse(userAgent)
	return Info{
		Platform:       classify(parsed),
		DeviceFamily:   orUnknown(parsed.Device),
		OSFamily:       orUnknown(parsed.OS),
		OSVersion:      orUnknown(parsed.OSVersion),
		Browser:        orUnknown(parsed.Name),
		BrowserVersion: orUnknown(parsed.Version),
		IsMobile:       parsed.Mobile,
		IsTablet:       parsed.Tablet,
		IsBot:          parsed.Bot,
	}
}

func classify(parsed ua.UserAgent) Platform {
	// iPhone / iPod：要求 OS 为 iOS 且带 mobile 标记
	if parsed.Mobile && parsed.OS == ua.IOS {
		return PlatformIOS
	}

	// Android：不看 mobile 标记，平板也算
	if parsed.OS == ua.Android {
		return PlatformAndroid
	}

	// 桌面、爬虫、其它移动系统等
	return PlatformOther
}

func orUnknown(value string) string {
	if value == "" {
		return Unknown
	}
	return value
}
