package auth

import (
	"fmt"
	"strings"
)

// ShowTokenCreationGuide displays step-by-step instructions for creating a token
func ShowTokenCreationGuide() {
	fmt.Println(strings.Repeat("=", 80))
	fmt.Println("📚 GITHUB TOKEN CREATION GUIDE")
	fmt.Println(strings.Repeat("=", 80))
	fmt.Println()

	fmt.Println("Harvesting works without a token, but the search API then allows only")
	fmt.Println("10 requests per minute. With a token the limit rises to 30 per minute")
	fmt.Println("and throttling cooldowns become rare. Creating one takes two minutes:")
	fmt.Println()

	fmt.Println("🌐 STEP 1: Open the token settings page")
	fmt.Println("   - Go to https://github.com/settings/tokens")
	fmt.Println("   - Log in if prompted")
	fmt.Println()

	fmt.Println("🔧 STEP 2: Generate a new token")
	fmt.Println("   - Click 'Generate new token' and pick 'Generate new token (classic)'")
	fmt.Println("   - Give it a note like 'l10nminer' so you recognise it later")
	fmt.Println("   - Pick an expiration you are comfortable with")
	fmt.Println()

	fmt.Println("🔑 STEP 3: Select scopes")
	fmt.Println("   - Leave ALL scope checkboxes unticked")
	fmt.Println("   - Issue search only reads public data, so no scopes are needed")
	fmt.Println("   - A token with zero scopes still gets the higher rate limit")
	fmt.Println()

	fmt.Println("📋 STEP 4: Copy the token")
	fmt.Println("   - Click 'Generate token' at the bottom")
	fmt.Println("   - Copy the value starting with 'ghp_' right away")
	fmt.Println("   - GitHub shows it only once")
	fmt.Println()

	fmt.Println("💾 STEP 5: Store it")
	fmt.Println("   - Run: l10nminer token store")
	fmt.Println("   - Or export it for the current shell: export GITHUB_TOKEN=ghp_...")
	fmt.Println()

	fmt.Println("💡 TIPS:")
	fmt.Println("   • Fine-grained tokens also work; grant them no repository access")
	fmt.Println("   • The stored token lands in your system keychain when available,")
	fmt.Println("     otherwise in an encrypted file under your config directory")
	fmt.Println("   • Rotate the token if it ever leaks; nothing else needs updating")
	fmt.Println()

	fmt.Println("⚠️  SECURITY WARNING:")
	fmt.Println("   • Treat the token like a password and never commit it")
	fmt.Println("   • Scopeless tokens can still act as you for rate accounting")
	fmt.Println()
	fmt.Println(strings.Repeat("=", 80))
	fmt.Println()
}

// ShowQuickTokenGuide shows a condensed version for experienced users
func ShowQuickTokenGuide() {
	fmt.Println("\n🔑 Quick Guide: github.com/settings/tokens → Generate new token (classic) → no scopes → copy ghp_...")
	fmt.Println("   Then: l10nminer token store   (or export GITHUB_TOKEN=ghp_...)")
	fmt.Println("   Type 'help' for detailed instructions")
}
