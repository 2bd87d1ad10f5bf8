//go:build android || ios

package backdrop

const isMobileGOOS = true
