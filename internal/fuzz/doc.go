// Package fuzztests houses Go fuzz harnesses that push generated sugared
// trees through the whole pass pipeline. Its goal is to guard against panics,
// hangs, lost comments and non-idempotent rewrites on arbitrary statement
// mixes.
//
// Назначение: превращать байты в дерево (testkit.Generate) и прогонять его
// через pipeline.
//
// Не делает: генерацию корпусов на диск, выполнение CLI.
//
// Зависимости: internal/testkit, internal/pipeline, internal/ast.

package fuzztests
