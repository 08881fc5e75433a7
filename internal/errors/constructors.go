package errors

// Convenience constructors for the pipeline's error taxonomy.

// Markup errors

func MarkupError(message string) *BlogError {
	return New(CategoryMarkup, SeverityFatal, message)
}

func MarkupErrorf(message string, cause error) *BlogError {
	return Wrap(cause, CategoryMarkup, SeverityFatal, message)
}

func DateParseError(value string) *BlogError {
	return New(CategoryMarkup, SeverityFatal, "unparsable date in settings directive").
		WithContext("value", value)
}

// Configuration errors

func ConfigurationError(message string) *BlogError {
	return New(CategoryConfig, SeverityFatal, message)
}

func ConfigRequired(field string) *BlogError {
	return New(CategoryConfig, SeverityFatal, "required configuration missing").
		WithContext("field", field)
}

func MissingTitle(document string) *BlogError {
	return New(CategoryConfig, SeverityFatal, "document has no title").
		WithContext("document", document)
}

func RelativePageURL(document, url string) *BlogError {
	return New(CategoryConfig, SeverityFatal, "page url must be site-root-relative").
		WithContext("document", document).
		WithContext("url", url)
}

func DatelessPost(document string) *BlogError {
	return New(CategoryConfig, SeverityFatal, "post has no date").
		WithContext("document", document)
}

// Security errors. Always fatal; never downgraded.

func SecurityError(message string) *BlogError {
	return New(CategorySecurity, SeverityFatal, message)
}

func AbsoluteAssetPath(document, asset string) *BlogError {
	return New(CategorySecurity, SeverityFatal, "image reference resolves outside the source tree").
		WithContext("document", document).
		WithContext("asset", asset)
}

func PathEscapesRoot(path, root string) *BlogError {
	return New(CategorySecurity, SeverityFatal, "configured path escapes its root").
		WithContext("path", path).
		WithContext("root", root)
}

// Asset errors

func AssetMissing(document, asset string, cause error) *BlogError {
	return Wrap(cause, CategoryAsset, SeverityFatal, "referenced asset not found").
		WithContext("document", document).
		WithContext("asset", asset)
}

// Integration errors

func GitError(operation string, cause error) *BlogError {
	return Wrap(cause, CategoryGit, SeverityFatal, "git operation failed").
		WithContext("operation", operation)
}

func QueueError(operation string, cause error) *BlogError {
	return Wrap(cause, CategoryQueue, SeverityFatal, "task queue operation failed").
		WithContext("operation", operation)
}

func TemplateError(name string, cause error) *BlogError {
	return Wrap(cause, CategoryTemplate, SeverityFatal, "template rendering failed").
		WithContext("template", name)
}

func FileSystemError(operation string, cause error) *BlogError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, "filesystem operation failed").
		WithContext("operation", operation)
}

func InternalError(message string, cause error) *BlogError {
	return Wrap(cause, CategoryInternal, SeverityFatal, message)
}
